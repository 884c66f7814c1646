package commands

import (
	"context"

	"github.com/pixil98/go-mudcore/internal/events"
)

// WhoHandler lists every spawned actor, sorted by name.
type WhoHandler struct {
	world World
}

func (h *WhoHandler) Handle(ctx context.Context, cmd *WhoCommand) (*events.Result, error) {
	ev := &events.WhoEvent{}
	for _, a := range h.world.ActiveActors() {
		ev.Actors = append(ev.Actors, events.ActorRefFromInfo(a))
	}
	return events.NewResult().Add(cmd.Actor(), ev), nil
}
