package messaging

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/events"
)

// Renderer turns one result entry into the text its recipient sees.
type Renderer interface {
	Render(recipient uuid.UUID, entry events.Entry) string
}

// Outbound gets rendered text to an actor's connection.
type Outbound interface {
	DispatchToActor(ctx context.Context, id uuid.UUID, message string) error
	ForceDisconnect(ctx context.Context, id uuid.UUID) error
}

// Dispatcher delivers command results.
type Dispatcher struct {
	renderer Renderer
	out      Outbound
}

func NewDispatcher(r Renderer, out Outbound) *Dispatcher {
	return &Dispatcher{renderer: r, out: out}
}

// Deliver renders every entry of res in order and hands it to the outbound.
// A failure for one recipient is logged and does not stop the rest.
// Recipients of a DisconnectEvent are disconnected once all text is out.
func (d *Dispatcher) Deliver(ctx context.Context, res *events.Result) {
	var disconnect []uuid.UUID

	for _, entry := range res.Entries() {
		if _, ok := entry.Event.(*events.DisconnectEvent); ok && !slices.Contains(disconnect, entry.Recipient) {
			disconnect = append(disconnect, entry.Recipient)
		}

		text := d.renderer.Render(entry.Recipient, entry)
		if text == "" {
			continue
		}
		if err := d.out.DispatchToActor(ctx, entry.Recipient, text); err != nil {
			slog.WarnContext(ctx, "delivering message", "actor", entry.Recipient, "event", entry.Event.EventName(), "error", err)
		}
	}

	for _, id := range disconnect {
		if err := d.out.ForceDisconnect(ctx, id); err != nil {
			slog.ErrorContext(ctx, "disconnecting actor", "actor", id, "error", err)
		}
	}
}
