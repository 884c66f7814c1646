package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/session"
	"golang.org/x/time/rate"
)

const (
	DefaultInputRate  = 10
	DefaultInputBurst = 20

	msgNotUnderstood = "I don't understand that."
	msgFault         = "Something went wrong. Please try again."
	msgTooFast       = "Slow down! You're typing too fast."
)

// Gateway is the part of the session gateway a connection talks to.
type Gateway interface {
	OnSessionStarted(ctx context.Context, id uuid.UUID, ch session.OutputChannel) (session.ConnectionId, error)
	OnSessionEnded(ctx context.Context, id uuid.UUID, connId session.ConnectionId)
}

// Parser binds a line of input to a command.
type Parser interface {
	Parse(actorId uuid.UUID, input string) (commands.Command, error)
}

// Executor runs a bound command.
type Executor interface {
	Exec(ctx context.Context, cmd commands.Command) (*events.Result, error)
}

// Metrics observes player input.
type Metrics interface {
	InputThrottled(id uuid.UUID)
}

// ActivityTracker is told whenever a player sends input.
type ActivityTracker interface {
	Touch(id uuid.UUID)
}

type ConnectionManagerOpt func(*ConnectionManager)

// WithInputRate limits each connection to rate lines a second with bursts
// of up to burst lines.
func WithInputRate(r float64, burst int) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		if r > 0 {
			m.rate = rate.Limit(r)
		}
		if burst > 0 {
			m.burst = burst
		}
	}
}

func WithMetrics(metrics Metrics) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		m.metrics = metrics
	}
}

func WithActivityTracker(t ActivityTracker) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		m.activity = t
	}
}

// ConnectionManager runs a connected player from login to disconnect.
type ConnectionManager struct {
	login    *loginFlow
	gateway  Gateway
	parser   Parser
	executor Executor
	out      Deliverer

	rate     rate.Limit
	burst    int
	metrics  Metrics
	activity ActivityTracker
}

func NewConnectionManager(actors Registry, saver Saver, gw Gateway, p Parser, e Executor, out Deliverer, opts ...ConnectionManagerOpt) *ConnectionManager {
	m := &ConnectionManager{
		login:    &loginFlow{actors: actors, saver: saver},
		gateway:  gw,
		parser:   p,
		executor: e,
		out:      out,
		rate:     DefaultInputRate,
		burst:    DefaultInputBurst,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AcceptConnection logs the player in, attaches them to their actor and
// runs their input until the connection drops, ctx is done or the session
// gateway closes the connection.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, rw io.ReadWriter) {
	if err := m.RunSession(ctx, rw); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "player session", "error", err)
	}
}

func (m *ConnectionManager) RunSession(ctx context.Context, rw io.ReadWriter) error {
	r := bufio.NewReader(rw)

	actor, err := m.login.Run(ctx, r, rw)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	conn := newConnection(rw)
	connId, err := m.gateway.OnSessionStarted(ctx, actor.Id, conn)
	if err != nil {
		_, _ = io.WriteString(rw, "The world isn't accepting players right now.\n")
		return fmt.Errorf("attaching %s: %w", actor.Name, err)
	}
	slog.InfoContext(ctx, "player connected", "actor", actor.Id, "name", actor.Name, "conn", connId)

	// Whatever ends the loop, the gateway ignores the notice if this
	// connection was already replaced or closed.
	defer m.gateway.OnSessionEnded(context.WithoutCancel(ctx), actor.Id, connId)

	if m.activity != nil {
		m.activity.Touch(actor.Id)
	}
	m.handleLine(ctx, actor.Id, "look")

	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	limiter := rate.NewLimiter(m.rate, m.burst)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-conn.Done():
			slog.InfoContext(ctx, "connection closed by server", "actor", actor.Id, "conn", connId)
			return nil

		case err := <-readErr:
			slog.InfoContext(ctx, "player connection lost", "actor", actor.Id, "conn", connId)
			return err

		case line := <-lines:
			if m.activity != nil {
				m.activity.Touch(actor.Id)
			}
			if !limiter.Allow() {
				if m.metrics != nil {
					m.metrics.InputThrottled(actor.Id)
				}
				m.tell(ctx, actor.Id, msgTooFast)
				continue
			}
			m.handleLine(ctx, actor.Id, line)
		}
	}
}

// handleLine parses, executes and delivers one line of input. A panicking
// handler costs the player this command, not the connection.
func (m *ConnectionManager) handleLine(ctx context.Context, id uuid.UUID, line string) {
	defer func() {
		if r := recover(); r != nil {
			m.tell(ctx, id, msgFault)
		}
	}()

	cmd, err := m.parser.Parse(id, line)
	if err != nil {
		var userErr *commands.UserError
		switch {
		case errors.Is(err, commands.ErrNoInput):
		case errors.Is(err, commands.ErrNotUnderstood):
			m.tell(ctx, id, msgNotUnderstood)
		case errors.As(err, &userErr):
			m.tell(ctx, id, userErr.Error())
		default:
			slog.ErrorContext(ctx, "parsing input", "actor", id, "error", err)
			m.tell(ctx, id, msgFault)
		}
		return
	}

	res, err := m.executor.Exec(ctx, cmd)
	if err != nil {
		m.tell(ctx, id, msgFault)
		return
	}
	m.out.Deliver(ctx, res)
}

// tell takes the same path as command output so the player sees replies in
// the order they typed.
func (m *ConnectionManager) tell(ctx context.Context, id uuid.UUID, text string) {
	m.out.Deliver(ctx, events.NewResult().Add(id, &events.SystemMessageEvent{Text: text}))
}
