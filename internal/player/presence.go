package player

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/game"
)

// Deliverer sends a result's entries to their recipients.
type Deliverer interface {
	Deliver(ctx context.Context, res *events.Result)
}

// PresenceWorld is the part of the world Presence spawns actors in.
type PresenceWorld interface {
	Info(id uuid.UUID) (game.ActorInfo, error)
	IsSpawned(id uuid.UUID) bool
	Spawn(ctx context.Context, id uuid.UUID) error
	Despawn(ctx context.Context, id uuid.UUID) error
	RoomOf(id uuid.UUID) (string, error)
	Room(id string) (game.RoomView, error)
}

// Saver writes an actor's state out.
type Saver interface {
	Persist(ctx context.Context, id uuid.UUID)
	PersistNow(ctx context.Context, id uuid.UUID) error
}

type PresenceOpt func(*Presence)

// WithSyncOnDespawn saves despawning actors before they leave the world
// instead of queueing the save.
func WithSyncOnDespawn(sync bool) PresenceOpt {
	return func(p *Presence) {
		p.syncOnDespawn = sync
	}
}

// Presence is the session gateway's view of the world. It spawns and
// despawns actors, saves them on the way out and tells the room about it.
type Presence struct {
	world         PresenceWorld
	saver         Saver
	out           Deliverer
	syncOnDespawn bool
}

func NewPresence(world PresenceWorld, saver Saver, out Deliverer, opts ...PresenceOpt) *Presence {
	p := &Presence{
		world: world,
		saver: saver,
		out:   out,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Presence) IsSpawned(id uuid.UUID) bool {
	return p.world.IsSpawned(id)
}

func (p *Presence) Spawn(ctx context.Context, id uuid.UUID) error {
	return p.world.Spawn(ctx, id)
}

// Despawn saves the actor, takes them out of the world and announces their
// departure to whoever is left in the room.
func (p *Presence) Despawn(ctx context.Context, id uuid.UUID) error {
	if p.syncOnDespawn {
		if err := p.saver.PersistNow(ctx, id); err != nil {
			slog.ErrorContext(ctx, "saving despawning actor", "actor", id, "error", err)
		}
	} else {
		p.saver.Persist(ctx, id)
	}

	actor, room, ok := p.whereIs(id)
	if err := p.world.Despawn(ctx, id); err != nil {
		return err
	}
	if ok {
		res := events.NewResult().Broadcast(room.OccupantIds(), &events.ActorDespawnedEvent{Actor: events.ActorRefFromInfo(actor)}, id)
		p.out.Deliver(ctx, res)
	}
	return nil
}

// Spawned, Linkdead and Reconnected are session gateway hooks.

func (p *Presence) Spawned(ctx context.Context, id uuid.UUID) {
	p.announce(ctx, id, func(a events.ActorRef) events.Event { return &events.ActorSpawnedEvent{Actor: a} })
}

func (p *Presence) Linkdead(ctx context.Context, id uuid.UUID) {
	p.announce(ctx, id, func(a events.ActorRef) events.Event { return &events.ActorLinkdeadEvent{Actor: a} })
}

func (p *Presence) Reconnected(ctx context.Context, id uuid.UUID) {
	p.announce(ctx, id, func(a events.ActorRef) events.Event { return &events.ActorReconnectedEvent{Actor: a} })
}

func (p *Presence) announce(ctx context.Context, id uuid.UUID, event func(events.ActorRef) events.Event) {
	actor, room, ok := p.whereIs(id)
	if !ok {
		return
	}
	ev := event(events.ActorRefFromInfo(actor))
	p.out.Deliver(ctx, events.NewResult().BroadcastToAllButPlayer(room, id, ev))
}

func (p *Presence) whereIs(id uuid.UUID) (game.ActorInfo, game.RoomView, bool) {
	actor, err := p.world.Info(id)
	if err != nil {
		return game.ActorInfo{}, game.RoomView{}, false
	}
	roomId, err := p.world.RoomOf(id)
	if err != nil {
		return game.ActorInfo{}, game.RoomView{}, false
	}
	room, err := p.world.Room(roomId)
	if err != nil {
		return game.ActorInfo{}, game.RoomView{}, false
	}
	return actor, room, true
}
