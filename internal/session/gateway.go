package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultGracePeriod = 2 * time.Minute
	DefaultBufferSize  = 100
	DefaultMailboxSize = 256
)

// OutputChannel is where rendered output for a connected actor goes.
type OutputChannel interface {
	WriteOutput(message string) error
}

// World is the part of the game the gateway spawns and despawns actors in.
type World interface {
	IsSpawned(id uuid.UUID) bool
	Spawn(ctx context.Context, id uuid.UUID) error
	Despawn(ctx context.Context, id uuid.UUID) error
}

// Metrics observes session activity.
type Metrics interface {
	StateChanged(from, to State)
	ReplayEvicted()
	DeliveryFailed()
}

// ConnectionId identifies one attachment of a channel to an actor.
type ConnectionId uint64

// Gateway maps actors to their current output channel and runs the
// attached, linkdead and detached state machine for each of them.
//
// Every actor with a session gets a supervisor goroutine that owns all of
// that actor's session state and handles operations one at a time, in the
// order they were sent. A supervisor retires once its actor is detached and
// nothing is waiting for it.
type Gateway struct {
	world       World
	grace       time.Duration
	bufferSize  int
	mailboxSize int
	metrics     Metrics

	onSpawned     Hook
	onReconnected Hook
	onLinkdead    Hook
	onDespawned   Hook

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	sups    map[uuid.UUID]*supervisor
	stopped bool

	nextConn  atomic.Uint64
	nextTimer atomic.Uint64
}

// NewGateway creates a Gateway. It accepts operations right away; Start
// only waits for shutdown.
func NewGateway(world World, opts ...GatewayOpt) *Gateway {
	g := &Gateway{
		world:       world,
		grace:       DefaultGracePeriod,
		bufferSize:  DefaultBufferSize,
		mailboxSize: DefaultMailboxSize,
		sups:        map[uuid.UUID]*supervisor{},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())
	return g
}

// Start blocks until ctx is done, then stops every supervisor and pending
// timer and waits for them to exit.
func (g *Gateway) Start(ctx context.Context) error {
	<-ctx.Done()

	g.mu.Lock()
	g.stopped = true
	g.mu.Unlock()

	g.cancel()
	g.wg.Wait()
	slog.InfoContext(ctx, "session gateway stopped")
	return nil
}

// OnSessionStarted attaches ch to the actor. A detached actor is spawned, a
// linkdead actor gets their buffered output replayed, and an attached actor
// has their previous channel closed and replaced.
func (g *Gateway) OnSessionStarted(ctx context.Context, id uuid.UUID, ch OutputChannel) (ConnectionId, error) {
	connId := ConnectionId(g.nextConn.Add(1))
	reply := make(chan error, 1)

	if err := g.send(ctx, id, attachOp{ctx: ctx, ch: ch, connId: connId, reply: reply}, true, false); err != nil {
		return 0, err
	}

	select {
	case err := <-reply:
		if err != nil {
			return 0, err
		}
		return connId, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-g.ctx.Done():
		return 0, ErrStopped
	}
}

// OnSessionEnded tells the gateway connId went away. The actor goes
// linkdead. Notices for a connection that has since been replaced are
// ignored.
func (g *Gateway) OnSessionEnded(ctx context.Context, id uuid.UUID, connId ConnectionId) {
	err := g.send(ctx, id, endOp{connId: connId}, false, false)
	if err != nil && !errors.Is(err, errNoSession) {
		slog.WarnContext(ctx, "ending session", "actor", id, "error", err)
	}
}

// DispatchToActor delivers message to the actor's channel, buffers it while
// they are linkdead, or drops it when they have no session. It never blocks;
// ErrMailboxFull means the message was dropped.
func (g *Gateway) DispatchToActor(ctx context.Context, id uuid.UUID, message string) error {
	err := g.send(ctx, id, dispatchOp{msg: message}, false, true)
	if errors.Is(err, errNoSession) {
		return nil
	}
	return err
}

// ForceDisconnect closes the actor's channel, cancels any despawn timer and
// despawns the actor, leaving them detached.
func (g *Gateway) ForceDisconnect(ctx context.Context, id uuid.UUID) error {
	reply := make(chan error, 1)
	if err := g.send(ctx, id, forceOp{ctx: ctx, reply: reply}, true, false); err != nil {
		return err
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-g.ctx.Done():
		return ErrStopped
	}
}

// State reports the actor's session state.
func (g *Gateway) State(id uuid.UUID) State {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sups[id]
	if !ok {
		return Detached
	}
	return s.load()
}

// send queues op for the actor's supervisor, starting one if create is set.
// Control operations wait for room in the mailbox; when nonBlocking is set a
// full mailbox fails straight away.
func (g *Gateway) send(ctx context.Context, id uuid.UUID, op any, create, nonBlocking bool) error {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return ErrStopped
	}
	s, ok := g.sups[id]
	if !ok {
		if !create {
			g.mu.Unlock()
			return errNoSession
		}
		s = g.newSupervisor(id)
		g.sups[id] = s
		g.wg.Add(1)
		go g.run(s)
	}
	s.pending++
	g.mu.Unlock()

	select {
	case s.inbox <- op:
		return nil
	default:
	}

	if nonBlocking {
		g.release(s)
		return ErrMailboxFull
	}

	select {
	case s.inbox <- op:
		return nil
	case <-ctx.Done():
		g.release(s)
		return ctx.Err()
	case <-s.ctx.Done():
		g.release(s)
		return ErrStopped
	}
}

// release gives up a reservation made by send for an operation that was
// never queued.
func (g *Gateway) release(s *supervisor) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s.pending--
	g.retireLocked(s)
}

// retireLocked removes an idle, detached supervisor. g.mu must be held.
func (g *Gateway) retireLocked(s *supervisor) bool {
	if s.pending > 0 || s.load() != Detached {
		return false
	}
	if g.sups[s.id] == s {
		delete(g.sups, s.id)
	}
	s.cancel()
	return true
}

// runHook calls h off the supervisor goroutine.
func (g *Gateway) runHook(h Hook, id uuid.UUID) {
	if h == nil {
		return
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		h(g.ctx, id)
	}()
}
