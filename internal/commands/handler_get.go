package commands

import (
	"context"
	"errors"

	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/game"
)

// TakeHandler picks an item up off the floor.
type TakeHandler struct {
	world   World
	persist Persister
}

func (h *TakeHandler) Handle(ctx context.Context, cmd *TakeCommand) (*events.Result, error) {
	item, err := h.world.TakeItem(cmd.Actor(), cmd.Item.Id)
	if errors.Is(err, game.ErrItemNotFound) {
		// Someone else got to it first.
		return tell(cmd.Actor(), "You don't see that here."), nil
	}
	if err != nil {
		return nil, err
	}
	h.persist.Persist(ctx, cmd.Actor())

	actor, room, err := actorRoom(h.world, cmd.Actor())
	if err != nil {
		return nil, err
	}

	ev := &events.ItemTakenEvent{Actor: events.ActorRefFromInfo(actor), Item: events.ItemRefFromItem(item)}
	return events.NewResult().
		Add(actor.Id, ev).
		BroadcastToAllButPlayer(room, actor.Id, ev), nil
}
