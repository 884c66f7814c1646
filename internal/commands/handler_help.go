package commands

import (
	"context"
	"slices"
	"strings"

	"github.com/pixil98/go-mudcore/internal/events"
)

// HelpHandler lists the commands an actor may use, or describes one of them.
// Admin commands are only shown to admins.
type HelpHandler struct {
	world World
	defs  []Definition
}

func (h *HelpHandler) Handle(ctx context.Context, cmd *HelpCommand) (*events.Result, error) {
	actor, err := h.world.Info(cmd.Actor())
	if err != nil {
		return nil, err
	}

	ev := &events.HelpEvent{}
	for _, def := range h.defs {
		if def.Category() == CategoryAdmin && !actor.Admin {
			continue
		}
		if cmd.Topic != "" && !slices.ContainsFunc(def.Verbs(), func(v string) bool {
			return strings.EqualFold(v, cmd.Topic)
		}) {
			continue
		}
		ev.Topics = append(ev.Topics, events.HelpTopic{
			Verbs:       def.Verbs(),
			Category:    def.Category(),
			Description: def.Description(),
		})
	}

	if len(ev.Topics) == 0 {
		return tell(actor.Id, "There is no help on '%s'.", cmd.Topic), nil
	}
	return events.NewResult().Add(actor.Id, ev), nil
}
