package commands

import (
	"context"

	"github.com/pixil98/go-mudcore/internal/events"
)

type InventoryHandler struct {
	world World
}

func (h *InventoryHandler) Handle(ctx context.Context, cmd *InventoryCommand) (*events.Result, error) {
	items, err := h.world.Inventory(cmd.Actor())
	if err != nil {
		return nil, err
	}

	ev := &events.InventoryEvent{}
	for _, it := range items {
		ev.Items = append(ev.Items, events.ItemRefFromItem(it))
	}
	return events.NewResult().Add(cmd.Actor(), ev), nil
}
