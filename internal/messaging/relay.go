package messaging

import (
	"context"
	"log/slog"
)

// Subscriber delivers messages published on a subject.
type Subscriber interface {
	WaitReady(ctx context.Context) error
	Subscribe(subject string, handler func(subject string, data []byte)) (func(), error)
}

// Relay feeds messages published by a NatsPublisher into an Outbound,
// normally the session gateway.
type Relay struct {
	sub Subscriber
	out Outbound
}

func NewRelay(sub Subscriber, out Outbound) *Relay {
	return &Relay{sub: sub, out: out}
}

// Start subscribes once the server is up and relays until ctx is done.
func (r *Relay) Start(ctx context.Context) error {
	if err := r.sub.WaitReady(ctx); err != nil {
		return nil
	}

	unsubscribe, err := r.sub.Subscribe(subjectPrefix+".>", func(subject string, data []byte) {
		r.handle(ctx, subject, data)
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "relaying player messages", "subject", subjectPrefix+".>")

	<-ctx.Done()
	unsubscribe()
	return nil
}

func (r *Relay) handle(ctx context.Context, subject string, data []byte) {
	id, disconnect, err := parseSubject(subject)
	if err != nil {
		slog.WarnContext(ctx, "ignoring relayed message", "error", err)
		return
	}

	if disconnect {
		if err := r.out.ForceDisconnect(ctx, id); err != nil {
			slog.ErrorContext(ctx, "disconnecting actor", "actor", id, "error", err)
		}
		return
	}
	if err := r.out.DispatchToActor(ctx, id, string(data)); err != nil {
		slog.WarnContext(ctx, "delivering relayed message", "actor", id, "error", err)
	}
}
