package session

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type attachOp struct {
	ctx    context.Context
	ch     OutputChannel
	connId ConnectionId
	reply  chan<- error
}

type endOp struct {
	connId ConnectionId
}

type dispatchOp struct {
	msg string
}

type timeoutOp struct {
	token uint64
}

type forceOp struct {
	ctx   context.Context
	reply chan<- error
}

// supervisor owns one actor's session. Apart from state and pending, its
// fields are only touched by its own goroutine.
type supervisor struct {
	g     *Gateway
	id    uuid.UUID
	inbox chan any
	state atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc

	// pending counts operations sent but not yet handled. Guarded by g.mu.
	pending int

	channel OutputChannel
	connId  ConnectionId
	buffer  *replayBuffer

	timerToken  uint64
	timerCancel context.CancelFunc
}

func (g *Gateway) newSupervisor(id uuid.UUID) *supervisor {
	s := &supervisor{
		g:     g,
		id:    id,
		inbox: make(chan any, g.mailboxSize),
	}
	s.ctx, s.cancel = context.WithCancel(g.ctx)
	return s
}

func (g *Gateway) run(s *supervisor) {
	defer g.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			s.cancelTimer()
			return
		case op := <-s.inbox:
			s.handle(op)

			g.mu.Lock()
			s.pending--
			retired := g.retireLocked(s)
			g.mu.Unlock()
			if retired {
				s.cancelTimer()
				return
			}
		}
	}
}

func (s *supervisor) load() State {
	return State(s.state.Load())
}

func (s *supervisor) set(to State) {
	from := State(s.state.Swap(int32(to)))
	if from != to && s.g.metrics != nil {
		s.g.metrics.StateChanged(from, to)
	}
}

func (s *supervisor) handle(op any) {
	switch o := op.(type) {
	case attachOp:
		o.reply <- s.attach(o)
	case endOp:
		s.end(o.connId)
	case dispatchOp:
		s.dispatch(o.msg)
	case timeoutOp:
		s.timeout(o.token)
	case forceOp:
		o.reply <- s.force(o.ctx)
	}
}

func (s *supervisor) attach(o attachOp) error {
	switch s.load() {
	case Attached:
		old := s.channel
		s.channel, s.connId = o.ch, o.connId
		closeChannel(old)
		slog.InfoContext(o.ctx, "session taken over", "actor", s.id, "conn", o.connId)

	case Linkdead:
		s.cancelTimer()
		s.channel, s.connId = o.ch, o.connId
		s.set(Attached)
		if s.buffer != nil {
			for _, msg := range s.buffer.drain() {
				s.write(msg)
			}
			s.buffer = nil
		}
		slog.InfoContext(o.ctx, "session reconnected", "actor", s.id, "conn", o.connId)
		s.g.runHook(s.g.onReconnected, s.id)

	default:
		if s.g.world.IsSpawned(s.id) {
			s.channel, s.connId = o.ch, o.connId
			s.set(Attached)
			slog.InfoContext(o.ctx, "session attached to spawned actor", "actor", s.id, "conn", o.connId)
			s.g.runHook(s.g.onReconnected, s.id)
			return nil
		}
		if err := s.g.world.Spawn(o.ctx, s.id); err != nil {
			return err
		}
		s.channel, s.connId = o.ch, o.connId
		s.set(Attached)
		slog.InfoContext(o.ctx, "session started", "actor", s.id, "conn", o.connId)
		s.g.runHook(s.g.onSpawned, s.id)
	}
	return nil
}

func (s *supervisor) end(connId ConnectionId) {
	if s.load() != Attached || connId != s.connId {
		slog.DebugContext(s.ctx, "ignoring stale session end", "actor", s.id, "conn", connId, "current", s.connId)
		return
	}

	s.channel = nil
	s.buffer = newReplayBuffer(s.g.bufferSize)
	s.set(Linkdead)
	s.startTimer()
	slog.InfoContext(s.ctx, "session linkdead", "actor", s.id, "grace", s.g.grace)
	s.g.runHook(s.g.onLinkdead, s.id)
}

func (s *supervisor) dispatch(msg string) {
	switch s.load() {
	case Attached:
		s.write(msg)
	case Linkdead:
		if s.buffer.push(msg) && s.g.metrics != nil {
			s.g.metrics.ReplayEvicted()
		}
	}
}

func (s *supervisor) timeout(token uint64) {
	if s.load() != Linkdead || token != s.timerToken {
		return
	}
	s.cancelTimer()
	s.buffer = nil

	if err := s.g.world.Despawn(s.ctx, s.id); err != nil {
		slog.ErrorContext(s.ctx, "despawning linkdead actor", "actor", s.id, "error", err)
	}
	s.set(Detached)
	slog.InfoContext(s.ctx, "linkdead actor despawned", "actor", s.id)
	s.g.runHook(s.g.onDespawned, s.id)
}

func (s *supervisor) force(ctx context.Context) error {
	closeChannel(s.channel)
	s.channel = nil
	s.cancelTimer()
	s.buffer = nil
	s.set(Detached)

	if !s.g.world.IsSpawned(s.id) {
		return nil
	}
	if err := s.g.world.Despawn(ctx, s.id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "actor disconnected", "actor", s.id)
	s.g.runHook(s.g.onDespawned, s.id)
	return nil
}

func (s *supervisor) write(msg string) {
	if err := s.channel.WriteOutput(msg); err != nil {
		slog.WarnContext(s.ctx, "writing session output", "actor", s.id, "error", err)
		if s.g.metrics != nil {
			s.g.metrics.DeliveryFailed()
		}
	}
}

// startTimer schedules the despawn of a linkdead actor. The timer reports
// back through the mailbox with a token so that a timer from an earlier
// linkdead spell can't despawn a reconnected actor.
func (s *supervisor) startTimer() {
	s.cancelTimer()

	token := s.g.nextTimer.Add(1)
	ctx, cancel := context.WithCancel(s.ctx)
	s.timerToken, s.timerCancel = token, cancel

	g, id := s.g, s.id
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		t := time.NewTimer(g.grace)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		// A reconnect that wins the race cancels ctx, and the supervisor
		// ignores a token it no longer holds.
		_ = g.send(ctx, id, timeoutOp{token: token}, false, false)
	}()
}

// cancelTimer stops a pending despawn timer. Calling it without one is a
// no-op.
func (s *supervisor) cancelTimer() {
	if s.timerCancel != nil {
		s.timerCancel()
	}
	s.timerCancel = nil
	s.timerToken = 0
}

func closeChannel(ch OutputChannel) {
	if c, ok := ch.(io.Closer); ok {
		_ = c.Close()
	}
}
