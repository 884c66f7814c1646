package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/game"
)

// ClosureHandler opens, closes, locks and unlocks doors and containers.
type ClosureHandler struct {
	world   World
	persist Persister
}

func (h *ClosureHandler) Handle(ctx context.Context, cmd *ClosureCommand) (*events.Result, error) {
	name, err := h.world.OperateClosure(cmd.Actor(), cmd.Target.ClosureTarget(), cmd.Action)
	if name == "" {
		name = cmd.Target.Name()
	}
	if msg, ok := closureMessage(err, cmd.Action, name); ok {
		return tell(cmd.Actor(), "%s", msg), nil
	}
	if err != nil {
		return nil, err
	}
	if cmd.Target.Item != nil {
		h.persist.Persist(ctx, cmd.Actor())
	}

	actor, room, err := actorRoom(h.world, cmd.Actor())
	if err != nil {
		return nil, err
	}

	ev := &events.ClosureEvent{Actor: events.ActorRefFromInfo(actor), Action: cmd.Action, Name: name}
	return events.NewResult().
		Add(actor.Id, ev).
		BroadcastToAllButPlayer(room, actor.Id, ev), nil
}

// closureMessage maps an expected closure failure to what the actor is told.
func closureMessage(err error, action game.ClosureAction, name string) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, game.ErrLocked):
		return fmt.Sprintf("The %s is locked.", name), true
	case errors.Is(err, game.ErrAlreadyOpen):
		return fmt.Sprintf("The %s is already open.", name), true
	case errors.Is(err, game.ErrAlreadyClosed):
		return fmt.Sprintf("The %s is already closed.", name), true
	case errors.Is(err, game.ErrMustClose):
		return fmt.Sprintf("You need to close the %s first.", name), true
	case errors.Is(err, game.ErrAlreadyLocked):
		return fmt.Sprintf("The %s is already locked.", name), true
	case errors.Is(err, game.ErrNotLocked):
		return fmt.Sprintf("The %s is not locked.", name), true
	case errors.Is(err, game.ErrNoLock):
		return fmt.Sprintf("The %s has no lock.", name), true
	case errors.Is(err, game.ErrNoKey):
		return "You don't have the key.", true
	case errors.Is(err, game.ErrNotCloseable):
		return fmt.Sprintf("You can't %s that.", action), true
	case errors.Is(err, game.ErrItemNotFound), errors.Is(err, game.ErrExitNotFound):
		return "You don't see that here.", true
	}
	return "", false
}
