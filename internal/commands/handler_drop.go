package commands

import (
	"context"
	"errors"

	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/game"
)

// DropHandler puts a carried item down in the actor's room.
type DropHandler struct {
	world   World
	persist Persister
}

func (h *DropHandler) Handle(ctx context.Context, cmd *DropCommand) (*events.Result, error) {
	item, err := h.world.DropItem(cmd.Actor(), cmd.Item.Id)
	if errors.Is(err, game.ErrItemNotFound) {
		return tell(cmd.Actor(), "You aren't carrying that anymore."), nil
	}
	if err != nil {
		return nil, err
	}
	h.persist.Persist(ctx, cmd.Actor())

	actor, room, err := actorRoom(h.world, cmd.Actor())
	if err != nil {
		return nil, err
	}

	ev := &events.ItemDroppedEvent{Actor: events.ActorRefFromInfo(actor), Item: events.ItemRefFromItem(item)}
	return events.NewResult().
		Add(actor.Id, ev).
		BroadcastToAllButPlayer(room, actor.Id, ev), nil
}
