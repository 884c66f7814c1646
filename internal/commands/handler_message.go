package commands

import (
	"context"
	"strings"

	"github.com/pixil98/go-mudcore/internal/events"
)

// SayHandler speaks to everyone in the speaker's room.
type SayHandler struct {
	world World
}

func (h *SayHandler) Handle(ctx context.Context, cmd *SayCommand) (*events.Result, error) {
	if strings.TrimSpace(cmd.Message) == "" {
		return tell(cmd.Actor(), "Say what?"), nil
	}

	actor, room, err := actorRoom(h.world, cmd.Actor())
	if err != nil {
		return nil, err
	}

	ev := &events.SayEvent{Speaker: events.ActorRefFromInfo(actor), Message: cmd.Message}
	return events.NewResult().
		Add(actor.Id, ev).
		BroadcastToAllButPlayer(room, actor.Id, ev), nil
}

// EmoteHandler shows an action to everyone in the actor's room.
type EmoteHandler struct {
	world World
}

func (h *EmoteHandler) Handle(ctx context.Context, cmd *EmoteCommand) (*events.Result, error) {
	if strings.TrimSpace(cmd.Action) == "" {
		return tell(cmd.Actor(), "Emote what?"), nil
	}

	actor, room, err := actorRoom(h.world, cmd.Actor())
	if err != nil {
		return nil, err
	}

	ev := &events.EmoteEvent{Actor: events.ActorRefFromInfo(actor), Action: cmd.Action}
	return events.NewResult().
		Add(actor.Id, ev).
		BroadcastToAllButPlayer(room, actor.Id, ev), nil
}

// WhisperHandler delivers a private message. Nobody observes it.
type WhisperHandler struct {
	world World
}

func (h *WhisperHandler) Handle(ctx context.Context, cmd *WhisperCommand) (*events.Result, error) {
	if !h.world.IsSpawned(cmd.Target.Id) {
		return tell(cmd.Actor(), "%s is no longer online.", cmd.Target.Name), nil
	}

	actor, err := h.world.Info(cmd.Actor())
	if err != nil {
		return nil, err
	}

	ev := &events.WhisperEvent{
		From:    events.ActorRefFromInfo(actor),
		To:      events.ActorRefFromInfo(cmd.Target),
		Message: cmd.Message,
	}
	return events.NewResult().
		Add(actor.Id, ev).
		Add(cmd.Target.Id, ev), nil
}

// ChannelHandler talks on a world-wide channel. Actors who muted the
// channel don't hear it.
type ChannelHandler struct {
	world World
}

func (h *ChannelHandler) Handle(ctx context.Context, cmd *ChannelCommand) (*events.Result, error) {
	if strings.TrimSpace(cmd.Message) == "" {
		return tell(cmd.Actor(), "What do you want to say on %s?", cmd.Channel), nil
	}
	if h.world.IsMuted(cmd.Actor(), cmd.Channel) {
		return tell(cmd.Actor(), "You have the %s channel muted.", cmd.Channel), nil
	}

	actor, err := h.world.Info(cmd.Actor())
	if err != nil {
		return nil, err
	}

	ev := &events.ChannelEvent{
		Channel: cmd.Channel,
		Speaker: events.ActorRefFromInfo(actor),
		Message: cmd.Message,
	}
	res := events.NewResult().Add(actor.Id, ev)
	for _, other := range h.world.ActiveActors() {
		if other.Id == actor.Id || h.world.IsMuted(other.Id, cmd.Channel) {
			continue
		}
		res.AddAs(other.Id, ev, events.Observer)
	}
	return res, nil
}

// MuteHandler turns a channel off or back on for the actor.
type MuteHandler struct {
	world   World
	persist Persister
}

func (h *MuteHandler) Handle(ctx context.Context, cmd *MuteCommand) (*events.Result, error) {
	if h.world.IsMuted(cmd.Actor(), cmd.Channel) == cmd.Mute {
		if cmd.Mute {
			return tell(cmd.Actor(), "The %s channel is already muted.", cmd.Channel), nil
		}
		return tell(cmd.Actor(), "The %s channel isn't muted.", cmd.Channel), nil
	}

	if err := h.world.SetMuted(cmd.Actor(), cmd.Channel, cmd.Mute); err != nil {
		return nil, err
	}
	h.persist.Persist(ctx, cmd.Actor())

	return events.NewResult().Add(cmd.Actor(), &events.MuteEvent{Channel: cmd.Channel, Muted: cmd.Mute}), nil
}
