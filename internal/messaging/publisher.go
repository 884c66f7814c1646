package messaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	subjectPrefix     = "player"
	disconnectSubject = "disconnect"
)

// PlayerSubject is the subject an actor's text is published on.
func PlayerSubject(id uuid.UUID) string {
	return fmt.Sprintf("%s.%s", subjectPrefix, id)
}

// DisconnectSubject is the subject a disconnect request for an actor is
// published on.
func DisconnectSubject(id uuid.UUID) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, id, disconnectSubject)
}

// parseSubject is the inverse of PlayerSubject and DisconnectSubject.
func parseSubject(subject string) (uuid.UUID, bool, error) {
	parts := strings.Split(subject, ".")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != subjectPrefix {
		return uuid.Nil, false, fmt.Errorf("unexpected subject %q", subject)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("subject %q: %w", subject, err)
	}
	if len(parts) == 3 {
		if parts[2] != disconnectSubject {
			return uuid.Nil, false, fmt.Errorf("unexpected subject %q", subject)
		}
		return id, true, nil
	}
	return id, false, nil
}

// Publisher sends raw data on a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NatsPublisher is an Outbound that sends per-player messages over nats
// instead of straight to the session gateway.
type NatsPublisher struct {
	pub Publisher
}

// NewNatsPublisher wraps a Publisher, usually a NatsServer, for per-player
// message delivery.
func NewNatsPublisher(pub Publisher) *NatsPublisher {
	return &NatsPublisher{pub: pub}
}

func (p *NatsPublisher) DispatchToActor(_ context.Context, id uuid.UUID, message string) error {
	return p.pub.Publish(PlayerSubject(id), []byte(message))
}

func (p *NatsPublisher) ForceDisconnect(_ context.Context, id uuid.UUID) error {
	return p.pub.Publish(DisconnectSubject(id), nil)
}
