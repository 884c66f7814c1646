package player

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/session"
)

const DefaultIdleTimeout = 15 * time.Minute

// Sessions is what the idle ticker needs from the session gateway.
type Sessions interface {
	State(id uuid.UUID) session.State
	DispatchToActor(ctx context.Context, id uuid.UUID, message string) error
	ForceDisconnect(ctx context.Context, id uuid.UUID) error
}

type IdleTickerOpt func(*IdleTicker)

// WithIdleTimeout sets how long an attached player may go without input.
// Zero turns idle kicks off.
func WithIdleTimeout(d time.Duration) IdleTickerOpt {
	return func(t *IdleTicker) {
		t.timeout = d
	}
}

// IdleTicker disconnects attached players who have stopped sending input.
// Linkdead players are left to the session gateway's grace period.
type IdleTicker struct {
	sessions Sessions
	timeout  time.Duration
	now      func() time.Time

	mu   sync.Mutex
	seen map[uuid.UUID]time.Time
}

func NewIdleTicker(sessions Sessions, opts ...IdleTickerOpt) *IdleTicker {
	t := &IdleTicker{
		sessions: sessions,
		timeout:  DefaultIdleTimeout,
		now:      time.Now,
		seen:     map[uuid.UUID]time.Time{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Touch records input from the actor.
func (t *IdleTicker) Touch(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[id] = t.now()
}

func (t *IdleTicker) Tick(ctx context.Context) error {
	if t.timeout <= 0 {
		return nil
	}
	cutoff := t.now().Add(-t.timeout)

	// Collect first so the lock isn't held while talking to the gateway.
	var idle []uuid.UUID
	t.mu.Lock()
	for id, last := range t.seen {
		if !last.Before(cutoff) {
			continue
		}
		delete(t.seen, id)
		idle = append(idle, id)
	}
	t.mu.Unlock()

	for _, id := range idle {
		if t.sessions.State(id) != session.Attached {
			continue
		}
		if err := t.sessions.DispatchToActor(ctx, id, "You have been idle too long."); err != nil {
			slog.WarnContext(ctx, "telling idle player", "actor", id, "error", err)
		}
		if err := t.sessions.ForceDisconnect(ctx, id); err != nil {
			slog.ErrorContext(ctx, "disconnecting idle player", "actor", id, "error", err)
			continue
		}
		slog.InfoContext(ctx, "idle player disconnected", "actor", id)
	}

	return nil
}
