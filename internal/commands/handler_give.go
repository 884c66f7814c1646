package commands

import (
	"context"
	"errors"

	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/game"
)

// GiveHandler hands a carried item to another actor in the same room.
type GiveHandler struct {
	world   World
	persist Persister
}

func (h *GiveHandler) Handle(ctx context.Context, cmd *GiveCommand) (*events.Result, error) {
	item, err := h.world.GiveItem(cmd.Actor(), cmd.Recipient.Id, cmd.Item.Id)
	switch {
	case errors.Is(err, game.ErrItemNotFound):
		return tell(cmd.Actor(), "You aren't carrying that anymore."), nil
	case errors.Is(err, game.ErrNotHere), errors.Is(err, game.ErrActorNotFound):
		return tell(cmd.Actor(), "%s is no longer here.", cmd.Recipient.Name), nil
	case err != nil:
		return nil, err
	}
	h.persist.Persist(ctx, cmd.Actor())
	h.persist.Persist(ctx, cmd.Recipient.Id)

	actor, room, err := actorRoom(h.world, cmd.Actor())
	if err != nil {
		return nil, err
	}

	ev := &events.ItemGivenEvent{
		From: events.ActorRefFromInfo(actor),
		To:   events.ActorRefFromInfo(cmd.Recipient),
		Item: events.ItemRefFromItem(item),
	}
	return events.NewResult().
		Add(actor.Id, ev).
		Add(cmd.Recipient.Id, ev).
		Broadcast(room.OccupantIds(), ev, actor.Id, cmd.Recipient.Id), nil
}
