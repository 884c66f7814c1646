package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/game"
)

// World is the game state the command handlers read and mutate.
// *game.World satisfies it.
type World interface {
	BinderWorld

	Info(id uuid.UUID) (game.ActorInfo, error)
	IsSpawned(id uuid.UUID) bool
	RoomOf(id uuid.UUID) (string, error)
	Room(id string) (game.RoomView, error)

	TakeItem(actorId, itemId uuid.UUID) (game.Item, error)
	DropItem(actorId, itemId uuid.UUID) (game.Item, error)
	GiveItem(fromId, toId, itemId uuid.UUID) (game.Item, error)
	MoveActor(actorId uuid.UUID, direction string) (string, string, error)
	OperateClosure(actorId uuid.UUID, target game.ClosureTarget, action game.ClosureAction) (string, error)

	SetMuted(id uuid.UUID, channel string, muted bool) error
	IsMuted(id uuid.UUID, channel string) bool
}

// Persister schedules an actor's state to be saved.
type Persister interface {
	Persist(ctx context.Context, id uuid.UUID)
}

type nopPersister struct{}

func (nopPersister) Persist(context.Context, uuid.UUID) {}

// actorRoom returns the actor's identity together with a snapshot of the
// room they stand in.
func actorRoom(w ParserWorld, id uuid.UUID) (game.ActorInfo, game.RoomView, error) {
	info, err := w.Info(id)
	if err != nil {
		return game.ActorInfo{}, game.RoomView{}, err
	}
	roomId, err := w.RoomOf(id)
	if err != nil {
		return game.ActorInfo{}, game.RoomView{}, err
	}
	room, err := w.Room(roomId)
	if err != nil {
		return game.ActorInfo{}, game.RoomView{}, err
	}
	return info, room, nil
}
