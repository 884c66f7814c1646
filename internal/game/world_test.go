package game

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pixil98/go-testutil"
)

func testRooms() map[string]*Room {
	return map[string]*Room{
		"hall": {
			Name:        "Hall",
			Description: "A long hall.",
			Exits: []Exit{
				{Direction: "north", Aliases: []string{"n"}, Destination: "vault", Closure: &Closure{Name: "door", Closed: true, Lock: &Lock{Key: "brass key", Locked: true}}},
				{Direction: "east", Aliases: []string{"e"}, Destination: "garden"},
				{Direction: "down", Destination: "garden", Hidden: true},
			},
			Items: []ItemSpec{
				{Name: "sword", Keywords: []string{"blade"}},
				{Name: "brass key", Keywords: []string{"key"}},
				{Name: "chest", Closure: &Closure{Closed: true}},
			},
		},
		"vault":  {Name: "Vault", Exits: []Exit{{Direction: "south", Destination: "hall"}}},
		"garden": {Name: "Garden", Exits: []Exit{{Direction: "west", Destination: "hall"}}},
	}
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(testRooms(), WithDefaultRoom("hall"))
	if err != nil {
		t.Fatalf("creating world: %v", err)
	}
	return w
}

func spawnActor(t *testing.T, w *World, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	if err := w.Register(&ActorRecord{Id: id, Name: name}); err != nil {
		t.Fatalf("registering %s: %v", name, err)
	}
	if err := w.Spawn(context.Background(), id); err != nil {
		t.Fatalf("spawning %s: %v", name, err)
	}
	return id
}

func itemNamed(t *testing.T, items []Item, name string) Item {
	t.Helper()
	for _, it := range items {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("no item named %q", name)
	return Item{}
}

func TestNewWorld_Validation(t *testing.T) {
	tests := map[string]struct {
		rooms       map[string]*Room
		defaultRoom string
		expErr      string
	}{
		"valid": {
			rooms:       testRooms(),
			defaultRoom: "hall",
		},
		"unknown default room": {
			rooms:       testRooms(),
			defaultRoom: "attic",
			expErr:      `default room "attic" not found`,
		},
		"dangling exit": {
			rooms: map[string]*Room{
				"hall": {Name: "Hall", Exits: []Exit{{Direction: "up", Destination: "attic"}}},
			},
			defaultRoom: "hall",
			expErr:      `exit up leads to unknown room "attic"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewWorld(tt.rooms, WithDefaultRoom(tt.defaultRoom))
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestWorld_RegisterAndSpawn(t *testing.T) {
	w := newTestWorld(t)
	ctx := context.Background()

	id := uuid.New()
	err := w.Register(&ActorRecord{Id: id, Name: "Alice", Room: "nowhere"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = w.Register(&ActorRecord{Id: uuid.New(), Name: "alice"})
	testutil.AssertEqual(t, "duplicate name", errors.Is(err, ErrActorExists), true)

	info, ok := w.FindActorByName("ALICE")
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "id", info.Id, id)

	room, err := w.RoomOf(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "misplaced actor starts in default room", room, "hall")
	testutil.AssertEqual(t, "spawned before", w.IsSpawned(id), false)

	if err := w.Spawn(ctx, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "spawned after", w.IsSpawned(id), true)
	view, _ := w.Room("hall")
	testutil.AssertEqual(t, "occupants", len(view.Occupants), 1)
	testutil.AssertEqual(t, "active", len(w.ActiveActors()), 1)

	if err := w.Despawn(ctx, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, _ = w.Room("hall")
	testutil.AssertEqual(t, "occupants after despawn", len(view.Occupants), 0)
	testutil.AssertEqual(t, "active after despawn", len(w.ActiveActors()), 0)
}

func TestWorld_TakeDropGive(t *testing.T) {
	w := newTestWorld(t)
	alice := spawnActor(t, w, "Alice")
	bob := spawnActor(t, w, "Bob")

	view, _ := w.Room("hall")
	sword := itemNamed(t, view.Items, "sword")

	taken, err := w.TakeItem(alice, sword.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "container", taken.Container, ContainerRef{Kind: ContainerActor, Id: alice.String()})

	_, err = w.TakeItem(bob, sword.Id)
	testutil.AssertEqual(t, "second take fails", errors.Is(err, ErrItemNotFound), true)

	given, err := w.GiveItem(alice, bob, sword.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "given to bob", given.Container.Id, bob.String())

	inv, _ := w.Inventory(alice)
	testutil.AssertEqual(t, "alice inventory", len(inv), 0)
	inv, _ = w.Inventory(bob)
	testutil.AssertEqual(t, "bob inventory", len(inv), 1)

	dropped, err := w.DropItem(bob, sword.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "dropped in hall", dropped.Container, ContainerRef{Kind: ContainerRoom, Id: "hall"})

	view, _ = w.Room("hall")
	testutil.AssertEqual(t, "dropped item goes last", view.Items[len(view.Items)-1].Id, sword.Id)
}

func TestWorld_GiveRequiresSameRoom(t *testing.T) {
	w := newTestWorld(t)
	alice := spawnActor(t, w, "Alice")
	bob := spawnActor(t, w, "Bob")

	view, _ := w.Room("hall")
	sword := itemNamed(t, view.Items, "sword")
	if _, err := w.TakeItem(alice, sword.Id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := w.MoveActor(bob, "east"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := w.GiveItem(alice, bob, sword.Id)
	testutil.AssertEqual(t, "not here", errors.Is(err, ErrNotHere), true)
}

func TestWorld_ConcurrentTakeHasOneWinner(t *testing.T) {
	w := newTestWorld(t)
	view, _ := w.Room("hall")
	sword := itemNamed(t, view.Items, "sword")

	var actors []uuid.UUID
	for _, name := range []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"} {
		actors = append(actors, spawnActor(t, w, name))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for _, id := range actors {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := w.TakeItem(id, sword.Id); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	testutil.AssertEqual(t, "winners", wins, 1)

	holders := 0
	for _, id := range actors {
		inv, _ := w.Inventory(id)
		holders += len(inv)
	}
	view, _ = w.Room("hall")
	for _, it := range view.Items {
		if it.Id == sword.Id {
			holders++
		}
	}
	testutil.AssertEqual(t, "sword exists exactly once", holders, 1)
}

func TestWorld_MoveActor(t *testing.T) {
	tests := map[string]struct {
		direction string
		expRoom   string
		expErr    error
	}{
		"open exit":   {direction: "east", expRoom: "garden"},
		"hidden exit": {direction: "down", expRoom: "garden"},
		"closed door": {direction: "north", expRoom: "hall", expErr: ErrExitClosed},
		"no exit":     {direction: "west", expRoom: "hall", expErr: ErrExitNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := newTestWorld(t)
			id := spawnActor(t, w, "Alice")

			_, _, err := w.MoveActor(id, tt.direction)
			if tt.expErr != nil {
				testutil.AssertEqual(t, "error", errors.Is(err, tt.expErr), true)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			room, _ := w.RoomOf(id)
			testutil.AssertEqual(t, "room", room, tt.expRoom)

			view, _ := w.Room(tt.expRoom)
			testutil.AssertEqual(t, "occupant", len(view.Occupants), 1)
		})
	}
}

func TestWorld_OperateClosure(t *testing.T) {
	w := newTestWorld(t)
	id := spawnActor(t, w, "Alice")
	door := ClosureTarget{Direction: "north"}

	_, err := w.OperateClosure(id, door, ActionOpen)
	testutil.AssertEqual(t, "locked", errors.Is(err, ErrLocked), true)

	_, err = w.OperateClosure(id, door, ActionUnlock)
	testutil.AssertEqual(t, "no key", errors.Is(err, ErrNoKey), true)

	view, _ := w.Room("hall")
	key := itemNamed(t, view.Items, "brass key")
	if _, err := w.TakeItem(id, key.Id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, err := w.OperateClosure(id, door, ActionUnlock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "name", name, "door")

	if _, err := w.OperateClosure(id, door, ActionOpen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = w.OperateClosure(id, door, ActionLock)
	testutil.AssertEqual(t, "must close", errors.Is(err, ErrMustClose), true)

	if _, _, err := w.MoveActor(id, "north"); err != nil {
		t.Fatalf("moving through opened door: %v", err)
	}
}

func TestWorld_OperateItemClosure(t *testing.T) {
	w := newTestWorld(t)
	id := spawnActor(t, w, "Alice")

	view, _ := w.Room("hall")
	chest := itemNamed(t, view.Items, "chest")
	sword := itemNamed(t, view.Items, "sword")

	name, err := w.OperateClosure(id, ClosureTarget{ItemId: chest.Id}, ActionOpen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "name falls back to item", name, "chest")

	_, err = w.OperateClosure(id, ClosureTarget{ItemId: chest.Id}, ActionOpen)
	testutil.AssertEqual(t, "already open", errors.Is(err, ErrAlreadyOpen), true)

	_, err = w.OperateClosure(id, ClosureTarget{ItemId: chest.Id}, ActionLock)
	testutil.AssertEqual(t, "no lock", errors.Is(err, ErrNoLock), true)

	_, err = w.OperateClosure(id, ClosureTarget{ItemId: sword.Id}, ActionOpen)
	testutil.AssertEqual(t, "not closeable", errors.Is(err, ErrNotCloseable), true)
}

func TestWorld_SnapshotRoundTrip(t *testing.T) {
	w := newTestWorld(t)
	id := spawnActor(t, w, "Alice")

	view, _ := w.Room("hall")
	sword := itemNamed(t, view.Items, "sword")
	if _, err := w.TakeItem(id, sword.Id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.SetMuted(id, "OOC", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := w.MoveActor(id, "east"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, err := w.Snapshot(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "room", rec.Room, "garden")
	testutil.AssertEqual(t, "inventory", len(rec.Inventory), 1)
	testutil.AssertEqual(t, "muted", len(rec.Muted), 1)
	testutil.AssertEqual(t, "muted channel", rec.Muted[0], "ooc")

	other := newTestWorld(t)
	if err := other.Register(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inv, _ := other.Inventory(id)
	testutil.AssertEqual(t, "restored item", inv[0].Id, sword.Id)
	testutil.AssertEqual(t, "restored mute", other.IsMuted(id, "ooc"), true)
	room, _ := other.RoomOf(id)
	testutil.AssertEqual(t, "restored room", room, "garden")
}
