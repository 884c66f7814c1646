package persist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/game"
)

const (
	DefaultQueueSize        = 256
	DefaultAutosaveInterval = 5 * time.Minute
)

// World is where actor snapshots come from.
type World interface {
	Snapshot(id uuid.UUID) (*game.ActorRecord, error)
	ActiveActors() []game.ActorInfo
}

// Saver writes an actor snapshot somewhere durable.
type Saver interface {
	Save(id string, rec *game.ActorRecord) error
}

// Metrics observes snapshot writes.
type Metrics interface {
	SnapshotSaved()
	SnapshotDropped()
	SnapshotFailed()
}

type WriteQueueOpt func(*WriteQueue)

// WithQueueSize sets how many snapshots can wait to be written.
func WithQueueSize(n int) WriteQueueOpt {
	return func(q *WriteQueue) {
		if n > 0 {
			q.size = n
		}
	}
}

// WithAutosaveInterval sets how often Tick saves every active actor. Zero
// turns autosave off.
func WithAutosaveInterval(d time.Duration) WriteQueueOpt {
	return func(q *WriteQueue) {
		q.autosave = d
	}
}

func WithMetrics(m Metrics) WriteQueueOpt {
	return func(q *WriteQueue) {
		q.metrics = m
	}
}

// WriteQueue saves actor snapshots off the command path. Snapshots are
// taken when Persist is called and written in order by Start.
type WriteQueue struct {
	world World
	store Saver

	size     int
	autosave time.Duration
	metrics  Metrics
	now      func() time.Time

	queue        chan *game.ActorRecord
	lastAutosave time.Time
}

func NewWriteQueue(world World, store Saver, opts ...WriteQueueOpt) *WriteQueue {
	q := &WriteQueue{
		world:    world,
		store:    store,
		size:     DefaultQueueSize,
		autosave: DefaultAutosaveInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.queue = make(chan *game.ActorRecord, q.size)
	q.lastAutosave = q.now()
	return q
}

// Persist queues a snapshot of the actor. It never blocks: when the queue is
// full the snapshot is dropped and the next save picks the changes up.
func (q *WriteQueue) Persist(ctx context.Context, id uuid.UUID) {
	rec, err := q.world.Snapshot(id)
	if err != nil {
		slog.ErrorContext(ctx, "snapshotting actor", "actor", id, "error", err)
		return
	}

	select {
	case q.queue <- rec:
	default:
		slog.WarnContext(ctx, "persist queue full, dropping snapshot", "actor", id)
		if q.metrics != nil {
			q.metrics.SnapshotDropped()
		}
	}
}

// PersistNow saves the actor before returning.
func (q *WriteQueue) PersistNow(ctx context.Context, id uuid.UUID) error {
	rec, err := q.world.Snapshot(id)
	if err != nil {
		return err
	}
	return q.save(ctx, rec)
}

// Start writes queued snapshots until ctx is done, then writes whatever is
// still queued and closes the store if it can be closed.
func (q *WriteQueue) Start(ctx context.Context) error {
	for {
		select {
		case rec := <-q.queue:
			_ = q.save(ctx, rec)
		case <-ctx.Done():
			for {
				select {
				case rec := <-q.queue:
					_ = q.save(ctx, rec)
				default:
					slog.InfoContext(ctx, "persist queue drained")
					return q.closeStore()
				}
			}
		}
	}
}

// Tick queues every active actor once per autosave interval.
func (q *WriteQueue) Tick(ctx context.Context) error {
	if q.autosave <= 0 {
		return nil
	}
	now := q.now()
	if now.Sub(q.lastAutosave) < q.autosave {
		return nil
	}
	q.lastAutosave = now

	actors := q.world.ActiveActors()
	for _, a := range actors {
		q.Persist(ctx, a.Id)
	}
	slog.DebugContext(ctx, "autosave queued", "actors", len(actors))
	return nil
}

func (q *WriteQueue) closeStore() error {
	c, ok := q.store.(io.Closer)
	if !ok {
		return nil
	}
	if err := c.Close(); err != nil {
		return fmt.Errorf("closing actor store: %w", err)
	}
	return nil
}

func (q *WriteQueue) save(ctx context.Context, rec *game.ActorRecord) error {
	if err := q.store.Save(rec.Id.String(), rec); err != nil {
		slog.ErrorContext(ctx, "saving actor", "actor", rec.Id, "error", err)
		if q.metrics != nil {
			q.metrics.SnapshotFailed()
		}
		return err
	}
	if q.metrics != nil {
		q.metrics.SnapshotSaved()
	}
	return nil
}
