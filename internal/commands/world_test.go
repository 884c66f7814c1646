package commands

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/events"
	"github.com/pixil98/go-mudcore/internal/game"
)

func testRooms() map[string]*game.Room {
	return map[string]*game.Room{
		"hall": {
			Name:        "Hall",
			Description: "A long hall.",
			Exits: []game.Exit{
				{
					Direction:   "north",
					Aliases:     []string{"n"},
					Destination: "armory",
					Description: "A heavy oak door.",
					Closure:     &game.Closure{Name: "door", Closed: true, Lock: &game.Lock{Key: "brass key", Locked: true}},
				},
				{Direction: "east", Aliases: []string{"e"}, Destination: "garden"},
				{Direction: "west", Aliases: []string{"w"}, Destination: "quarry"},
				{Direction: "down", Aliases: []string{"d"}, Destination: "garden", Hidden: true},
			},
			Items: []game.ItemSpec{
				{Name: "brass key", Keywords: []string{"key"}, Description: "A small brass key."},
				{Name: "chest", Description: "An iron-bound chest.", Closure: &game.Closure{Closed: true}},
				{Name: "lantern"},
			},
		},
		"armory": {
			Name:  "Armory",
			Exits: []game.Exit{{Direction: "south", Aliases: []string{"s"}, Destination: "hall"}},
			Items: []game.ItemSpec{
				{Name: "sword", Description: "first"},
				{Name: "sword", Description: "second"},
				{Name: "sword", Description: "third"},
			},
		},
		"garden": {
			Name:  "Garden",
			Exits: []game.Exit{{Direction: "west", Aliases: []string{"w"}, Destination: "hall"}},
		},
		"crossing": {
			Name:  "Crossing",
			Exits: []game.Exit{{Direction: "northeast", Destination: "garden"}},
		},
		"quarry": {
			Name:  "Quarry",
			Exits: []game.Exit{{Direction: "east", Aliases: []string{"e"}, Destination: "hall"}},
			Items: []game.ItemSpec{
				{Name: "Rock", Description: "grey"},
				{Name: "Rock", Description: "brown"},
			},
		},
	}
}

func newTestWorld(t *testing.T) *game.World {
	t.Helper()
	w, err := game.NewWorld(testRooms(), game.WithDefaultRoom("hall"))
	if err != nil {
		t.Fatalf("creating world: %v", err)
	}
	return w
}

type spawnOpt func(*game.ActorRecord)

func inRoom(room string) spawnOpt {
	return func(r *game.ActorRecord) { r.Room = room }
}

func asAdmin() spawnOpt {
	return func(r *game.ActorRecord) { r.Admin = true }
}

func spawnActor(t *testing.T, w *game.World, name string, opts ...spawnOpt) uuid.UUID {
	t.Helper()
	rec := &game.ActorRecord{Id: uuid.New(), Name: name, Room: "hall"}
	for _, opt := range opts {
		opt(rec)
	}
	if err := w.Register(rec); err != nil {
		t.Fatalf("registering %s: %v", name, err)
	}
	if err := w.Spawn(context.Background(), rec.Id); err != nil {
		t.Fatalf("spawning %s: %v", name, err)
	}
	return rec.Id
}

func parsingContext(t *testing.T, w *game.World, id uuid.UUID, input string) *ParsingContext {
	t.Helper()
	actor, room, err := actorRoom(w, id)
	if err != nil {
		t.Fatalf("building parsing context: %v", err)
	}
	return NewParsingContext(actor, room, input)
}

func roomItem(t *testing.T, w *game.World, room, description string) game.Item {
	t.Helper()
	view, err := w.Room(room)
	if err != nil {
		t.Fatalf("looking up room %s: %v", room, err)
	}
	for _, it := range view.Items {
		if it.Description == description || it.Name == description {
			return it
		}
	}
	t.Fatalf("room %s has no item %q", room, description)
	return game.Item{}
}

func takeItem(t *testing.T, w *game.World, id uuid.UUID, name string) {
	t.Helper()
	room, err := w.RoomOf(id)
	if err != nil {
		t.Fatalf("finding room: %v", err)
	}
	it := roomItem(t, w, room, name)
	if _, err := w.TakeItem(id, it.Id); err != nil {
		t.Fatalf("taking %s: %v", name, err)
	}
}

// recordingPersister remembers which actors were persisted.
type recordingPersister struct {
	ids []uuid.UUID
}

func (p *recordingPersister) Persist(_ context.Context, id uuid.UUID) {
	p.ids = append(p.ids, id)
}

// systemText returns the text of a result holding a single system message.
func systemText(t *testing.T, res *events.Result) string {
	t.Helper()
	entries := res.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	ev, ok := entries[0].Event.(*events.SystemMessageEvent)
	if !ok {
		t.Fatalf("expected system message, got %T", entries[0].Event)
	}
	return ev.Text
}
