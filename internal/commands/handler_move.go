package commands

import (
	"context"
	"errors"

	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/game"
)

// MoveHandler walks the actor through an exit. The room left hears the
// departure, the room entered hears the arrival and the actor sees the
// new room.
type MoveHandler struct {
	world   World
	persist Persister
}

func (h *MoveHandler) Handle(ctx context.Context, cmd *MoveCommand) (*events.Result, error) {
	fromId, toId, err := h.world.MoveActor(cmd.Actor(), cmd.Exit.Direction)
	switch {
	case errors.Is(err, game.ErrExitClosed):
		name := cmd.Exit.Direction
		if cmd.Exit.Closure != nil {
			name = cmd.Exit.Closure.Name
		}
		return tell(cmd.Actor(), "The %s is closed.", name), nil
	case errors.Is(err, game.ErrExitNotFound):
		return tell(cmd.Actor(), "You can't go that way."), nil
	case err != nil:
		return nil, err
	}
	h.persist.Persist(ctx, cmd.Actor())

	actor, err := h.world.Info(cmd.Actor())
	if err != nil {
		return nil, err
	}
	from, err := h.world.Room(fromId)
	if err != nil {
		return nil, err
	}
	to, err := h.world.Room(toId)
	if err != nil {
		return nil, err
	}

	ref := events.ActorRefFromInfo(actor)
	return events.NewResult().
		Broadcast(from.OccupantIds(), &events.ActorDepartedEvent{Actor: ref, Direction: cmd.Exit.Direction}, actor.Id).
		BroadcastToAllButPlayer(to, actor.Id, &events.ActorArrivedEvent{Actor: ref}).
		Add(actor.Id, &events.RoomDescriptionEvent{Room: to}), nil
}
