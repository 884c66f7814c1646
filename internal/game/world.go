package game

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
)

// World is the single source of truth for all mutable game state.
// There is no world-wide lock: each room and each actor guards its own
// state. Locks are always taken rooms first (in id order) then actors.
// The actor registry lock is never held while taking another lock.
type World struct {
	rooms       map[string]*RoomInstance
	defaultRoom string

	actorsMu sync.RWMutex
	actors   map[uuid.UUID]*Actor
	names    map[string]uuid.UUID
}

type WorldOpt func(*World)

// WithDefaultRoom sets the room new and misplaced actors start in.
func WithDefaultRoom(id string) WorldOpt {
	return func(w *World) {
		w.defaultRoom = id
	}
}

// NewWorld builds room instances for every room and checks that exits lead
// somewhere.
func NewWorld(rooms map[string]*Room, opts ...WorldOpt) (*World, error) {
	w := &World{
		rooms:  make(map[string]*RoomInstance, len(rooms)),
		actors: map[uuid.UUID]*Actor{},
		names:  map[string]uuid.UUID{},
	}
	for _, opt := range opts {
		opt(w)
	}

	el := errors.NewErrorList()
	for id, room := range rooms {
		for _, exit := range room.Exits {
			if _, ok := rooms[exit.Destination]; !ok {
				el.Add(fmt.Errorf("room %s: exit %s leads to unknown room %q", id, exit.Direction, exit.Destination))
			}
		}
		w.rooms[id] = NewRoomInstance(id, room)
	}
	if _, ok := rooms[w.defaultRoom]; !ok {
		el.Add(fmt.Errorf("default room %q not found", w.defaultRoom))
	}
	if err := el.Err(); err != nil {
		return nil, err
	}

	return w, nil
}

// DefaultRoom returns the room new actors start in.
func (w *World) DefaultRoom() string {
	return w.defaultRoom
}

// Register adds a known actor to the world without spawning it.
func (w *World) Register(rec *ActorRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("registering %s: %w", rec.Name, err)
	}

	roomId := rec.Room
	if _, ok := w.rooms[roomId]; !ok {
		roomId = w.defaultRoom
	}

	w.actorsMu.Lock()
	defer w.actorsMu.Unlock()

	if _, ok := w.actors[rec.Id]; ok {
		return ErrActorExists
	}
	key := strings.ToLower(rec.Name)
	if _, ok := w.names[key]; ok {
		return ErrActorExists
	}

	w.actors[rec.Id] = newActor(rec, roomId)
	w.names[key] = rec.Id
	return nil
}

// FindActorByName looks up a registered actor by exact name, ignoring case.
func (w *World) FindActorByName(name string) (ActorInfo, bool) {
	w.actorsMu.RLock()
	defer w.actorsMu.RUnlock()

	id, ok := w.names[strings.ToLower(name)]
	if !ok {
		return ActorInfo{}, false
	}
	return w.actors[id].ActorInfo, true
}

// Info returns the identity of an actor.
func (w *World) Info(id uuid.UUID) (ActorInfo, error) {
	a, err := w.actor(id)
	if err != nil {
		return ActorInfo{}, err
	}
	return a.ActorInfo, nil
}

// IsSpawned reports whether the actor is currently present in the world.
func (w *World) IsSpawned(id uuid.UUID) bool {
	a, err := w.actor(id)
	if err != nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.spawned
}

// Spawn places the actor into its current room.
func (w *World) Spawn(_ context.Context, id uuid.UUID) error {
	a, err := w.actor(id)
	if err != nil {
		return err
	}
	ri, err := w.lockActorRoom(a)
	if err != nil {
		return err
	}
	defer ri.mu.Unlock()
	defer a.mu.Unlock()

	ri.addOccupant(id)
	a.spawned = true
	return nil
}

// Despawn removes the actor from its room. The actor stays registered.
func (w *World) Despawn(_ context.Context, id uuid.UUID) error {
	a, err := w.actor(id)
	if err != nil {
		return err
	}
	ri, err := w.lockActorRoom(a)
	if err != nil {
		return err
	}
	defer ri.mu.Unlock()
	defer a.mu.Unlock()

	ri.removeOccupant(id)
	a.spawned = false
	return nil
}

// RoomOf returns the id of the room the actor is in.
func (w *World) RoomOf(id uuid.UUID) (string, error) {
	a, err := w.actor(id)
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.roomId, nil
}

// ActiveActors returns every spawned actor, ordered by name.
func (w *World) ActiveActors() []ActorInfo {
	w.actorsMu.RLock()
	all := make([]*Actor, 0, len(w.actors))
	for _, a := range w.actors {
		all = append(all, a)
	}
	w.actorsMu.RUnlock()

	var active []ActorInfo
	for _, a := range all {
		a.mu.Lock()
		if a.spawned {
			active = append(active, a.ActorInfo)
		}
		a.mu.Unlock()
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].Name < active[j].Name
	})
	return active
}

// Room returns a copy of the room's current state.
func (w *World) Room(id string) (RoomView, error) {
	ri, ok := w.rooms[id]
	if !ok {
		return RoomView{}, ErrRoomNotFound
	}

	ri.mu.Lock()
	view := RoomView{
		Id:          ri.Id,
		Name:        ri.Room.Name,
		Description: ri.Room.Description,
		Exits:       append([]ExitState(nil), ri.exits...),
		Items:       copyItems(ri.items),
	}
	occupants := append([]uuid.UUID(nil), ri.occupants...)
	ri.mu.Unlock()

	view.Occupants = w.infos(occupants)
	return view, nil
}

// Inventory returns a copy of what the actor is carrying, in pickup order.
func (w *World) Inventory(id uuid.UUID) ([]Item, error) {
	a, err := w.actor(id)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyItems(a.inventory), nil
}

// Snapshot returns the persistable form of the actor.
func (w *World) Snapshot(id uuid.UUID) (*ActorRecord, error) {
	a, err := w.actor(id)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.record(), nil
}

// TakeItem moves an item from the actor's room into their inventory.
func (w *World) TakeItem(actorId, itemId uuid.UUID) (Item, error) {
	a, err := w.actor(actorId)
	if err != nil {
		return Item{}, err
	}
	ri, err := w.lockActorRoom(a)
	if err != nil {
		return Item{}, err
	}
	defer ri.mu.Unlock()
	defer a.mu.Unlock()

	i := indexOfItem(ri.items, itemId)
	if i < 0 {
		return Item{}, ErrItemNotFound
	}
	it := ri.items[i]
	ri.items = removeItem(ri.items, i)
	it.Container = actorContainer(a.Id)
	a.inventory = append(a.inventory, it)
	return *it, nil
}

// DropItem moves an item from the actor's inventory into their room.
func (w *World) DropItem(actorId, itemId uuid.UUID) (Item, error) {
	a, err := w.actor(actorId)
	if err != nil {
		return Item{}, err
	}
	ri, err := w.lockActorRoom(a)
	if err != nil {
		return Item{}, err
	}
	defer ri.mu.Unlock()
	defer a.mu.Unlock()

	i := indexOfItem(a.inventory, itemId)
	if i < 0 {
		return Item{}, ErrItemNotFound
	}
	it := a.inventory[i]
	a.inventory = removeItem(a.inventory, i)
	it.Container = roomContainer(ri.Id)
	ri.items = append(ri.items, it)
	return *it, nil
}

// GiveItem moves an item between two actors standing in the same room.
func (w *World) GiveItem(fromId, toId, itemId uuid.UUID) (Item, error) {
	from, err := w.actor(fromId)
	if err != nil {
		return Item{}, err
	}
	to, err := w.actor(toId)
	if err != nil {
		return Item{}, err
	}
	if from == to {
		return Item{}, ErrNotHere
	}

	// Holding the room lock means nobody else can be holding the lock of an
	// actor that is in this room.
	ri, err := w.lockActorRoom(from)
	if err != nil {
		return Item{}, err
	}
	defer ri.mu.Unlock()
	defer from.mu.Unlock()

	to.mu.Lock()
	defer to.mu.Unlock()

	if to.roomId != ri.Id || !to.spawned {
		return Item{}, ErrNotHere
	}

	i := indexOfItem(from.inventory, itemId)
	if i < 0 {
		return Item{}, ErrItemNotFound
	}
	it := from.inventory[i]
	from.inventory = removeItem(from.inventory, i)
	it.Container = actorContainer(to.Id)
	to.inventory = append(to.inventory, it)
	return *it, nil
}

// MoveActor walks the actor through the named exit of their current room.
// It returns the rooms left and entered.
func (w *World) MoveActor(actorId uuid.UUID, direction string) (string, string, error) {
	a, err := w.actor(actorId)
	if err != nil {
		return "", "", err
	}

	for {
		a.mu.Lock()
		fromId := a.roomId
		a.mu.Unlock()

		from, ok := w.rooms[fromId]
		if !ok {
			return "", "", ErrRoomNotFound
		}
		idx := from.exitIndex(direction)
		if idx < 0 {
			return "", "", ErrExitNotFound
		}
		to, ok := w.rooms[from.exits[idx].Destination]
		if !ok {
			return "", "", ErrRoomNotFound
		}

		unlock := lockRooms(from, to)
		a.mu.Lock()
		if a.roomId != fromId {
			a.mu.Unlock()
			unlock()
			continue
		}

		err := func() error {
			if !a.spawned {
				return ErrNotSpawned
			}
			if from.exits[idx].State.Closed {
				return ErrExitClosed
			}
			from.removeOccupant(a.Id)
			to.addOccupant(a.Id)
			a.roomId = to.Id
			return nil
		}()
		a.mu.Unlock()
		unlock()
		if err != nil {
			return "", "", err
		}
		return from.Id, to.Id, nil
	}
}

// ClosureTarget names either an exit of the actor's room or an item the
// actor can reach.
type ClosureTarget struct {
	Direction string
	ItemId    uuid.UUID
}

// OperateClosure opens, closes, locks or unlocks a door or container. Keys
// are looked for in the actor's inventory. It returns the closure's name.
func (w *World) OperateClosure(actorId uuid.UUID, target ClosureTarget, action ClosureAction) (string, error) {
	a, err := w.actor(actorId)
	if err != nil {
		return "", err
	}
	ri, err := w.lockActorRoom(a)
	if err != nil {
		return "", err
	}
	defer ri.mu.Unlock()
	defer a.mu.Unlock()

	if target.Direction != "" {
		idx := ri.exitIndex(target.Direction)
		if idx < 0 {
			return "", ErrExitNotFound
		}
		exit := &ri.exits[idx]
		if exit.Closure == nil {
			return "", ErrNotCloseable
		}
		return exit.Closure.Name, exit.State.apply(exit.Closure, action, a.hasKeyFor)
	}

	var it *Item
	if i := indexOfItem(a.inventory, target.ItemId); i >= 0 {
		it = a.inventory[i]
	} else if i := indexOfItem(ri.items, target.ItemId); i >= 0 {
		it = ri.items[i]
	} else {
		return "", ErrItemNotFound
	}
	if it.Closure == nil {
		return it.Name, ErrNotCloseable
	}
	return it.ClosureName(), it.State.apply(it.Closure, action, a.hasKeyFor)
}

// SetMuted turns a chat channel off or on for the actor.
func (w *World) SetMuted(id uuid.UUID, channel string, muted bool) error {
	a, err := w.actor(id)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.muted[strings.ToLower(channel)] = muted
	return nil
}

// IsMuted reports whether the actor has muted a chat channel.
func (w *World) IsMuted(id uuid.UUID, channel string) bool {
	a, err := w.actor(id)
	if err != nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.muted[strings.ToLower(channel)]
}

func (w *World) actor(id uuid.UUID) (*Actor, error) {
	w.actorsMu.RLock()
	defer w.actorsMu.RUnlock()

	a, ok := w.actors[id]
	if !ok {
		return nil, ErrActorNotFound
	}
	return a, nil
}

func (w *World) infos(ids []uuid.UUID) []ActorInfo {
	w.actorsMu.RLock()
	defer w.actorsMu.RUnlock()

	out := make([]ActorInfo, 0, len(ids))
	for _, id := range ids {
		if a, ok := w.actors[id]; ok {
			out = append(out, a.ActorInfo)
		}
	}
	return out
}

// lockActorRoom locks the actor's current room and then the actor. On
// success the caller must unlock both.
func (w *World) lockActorRoom(a *Actor) (*RoomInstance, error) {
	for {
		a.mu.Lock()
		roomId := a.roomId
		a.mu.Unlock()

		ri, ok := w.rooms[roomId]
		if !ok {
			return nil, ErrRoomNotFound
		}

		ri.mu.Lock()
		a.mu.Lock()
		if a.roomId == roomId {
			return ri, nil
		}
		a.mu.Unlock()
		ri.mu.Unlock()
	}
}

func lockRooms(a, b *RoomInstance) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	if b.Id < a.Id {
		a, b = b, a
	}
	a.mu.Lock()
	b.mu.Lock()
	return func() {
		b.mu.Unlock()
		a.mu.Unlock()
	}
}
