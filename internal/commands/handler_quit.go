package commands

import (
	"context"

	"github.com/pixil98/go-mudcore/internal/events"
)

// handleQuit asks for the actor's own session to be closed. The actor is
// despawned when the session closes.
func handleQuit(ctx context.Context, cmd *QuitCommand) (*events.Result, error) {
	return events.NewResult().Add(cmd.Actor(), &events.DisconnectEvent{}), nil
}

// KickHandler throws another actor out of the world.
type KickHandler struct {
	world World
}

func (h *KickHandler) Handle(ctx context.Context, cmd *KickCommand) (*events.Result, error) {
	admin, err := h.world.Info(cmd.Actor())
	if err != nil {
		return nil, err
	}
	if !admin.Admin {
		return tell(admin.Id, "You don't have permission to do that."), nil
	}
	if !h.world.IsSpawned(cmd.Target.Id) {
		return tell(admin.Id, "%s is no longer online.", cmd.Target.Name), nil
	}

	by := events.ActorRefFromInfo(admin)
	return events.NewResult().
		Add(admin.Id, &events.KickEvent{By: by, Target: events.ActorRefFromInfo(cmd.Target)}).
		Add(cmd.Target.Id, &events.DisconnectEvent{Kicked: true, By: by}), nil
}
