package commands

import (
	"context"

	"github.com/pixil98/go-mudcore/internal/events"
)

// LookHandler describes the actor's room, or the target they looked at.
type LookHandler struct {
	world World
}

func (h *LookHandler) Handle(ctx context.Context, cmd *LookCommand) (*events.Result, error) {
	actor, room, err := actorRoom(h.world, cmd.Actor())
	if err != nil {
		return nil, err
	}
	res := events.NewResult()

	if cmd.Target == nil && !cmd.Self {
		return res.Add(actor.Id, &events.RoomDescriptionEvent{Room: room}), nil
	}

	ev := &events.ExamineEvent{Actor: events.ActorRefFromInfo(actor)}
	switch t := cmd.Target; {
	case cmd.Self:
		ev.Self = true
		ev.Target = actor.Name
	case t.Item != nil:
		ev.Target = t.Item.Name
		ev.Description = t.Item.Description
		if t.Item.Closure != nil {
			ev.Closeable = true
			ev.State = t.Item.State
		}
	case t.Exit != nil:
		ev.Target = t.Name()
		ev.Description = t.Exit.Description
		if t.Exit.Closure != nil {
			ev.Closeable = true
			ev.State = t.Exit.State
		}
	case t.Actor != nil:
		ev.Target = t.Actor.Name
	}
	res.Add(actor.Id, ev)

	// The looked-at person notices.
	if t := cmd.Target; !cmd.Self && t != nil && t.Actor != nil && t.Actor.Id != actor.Id {
		res.AddAs(t.Actor.Id, ev, events.Observer)
	}
	return res, nil
}
