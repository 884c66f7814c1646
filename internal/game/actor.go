package game

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
)

var actorNamePattern = regexp.MustCompile(`^[a-zA-Z]+$`)

// ActorRecord is the persisted form of an actor.
type ActorRecord struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Admin     bool      `json:"admin,omitempty"`
	Room      string    `json:"room"`
	Inventory []Item    `json:"inventory,omitempty"`
	Muted     []string  `json:"muted,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (r *ActorRecord) Validate() error {
	el := errors.NewErrorList()
	if r.Id == uuid.Nil {
		el.Add(fmt.Errorf("actor id is required"))
	}
	if !actorNamePattern.MatchString(r.Name) {
		el.Add(fmt.Errorf("actor name %q must be letters only", r.Name))
	}
	for i := range r.Inventory {
		if err := r.Inventory[i].Validate(); err != nil {
			el.Add(fmt.Errorf("inventory %d: %w", i, err))
		}
	}
	return el.Err()
}

// ValidActorName reports whether name can be used for a new actor.
func ValidActorName(name string) bool {
	return actorNamePattern.MatchString(name)
}

// ActorInfo is the immutable identity of an actor.
type ActorInfo struct {
	Id    uuid.UUID
	Name  string
	Admin bool
}

// Actor is the runtime state of an actor. Identity fields never change after
// registration; everything else is guarded by mu.
type Actor struct {
	ActorInfo

	mu        sync.Mutex
	roomId    string
	inventory []*Item
	muted     map[string]bool
	spawned   bool
}

func newActor(rec *ActorRecord, roomId string) *Actor {
	a := &Actor{
		ActorInfo: ActorInfo{Id: rec.Id, Name: rec.Name, Admin: rec.Admin},
		roomId:    roomId,
		muted:     map[string]bool{},
	}
	for _, it := range rec.Inventory {
		item := it
		item.Container = actorContainer(rec.Id)
		a.inventory = append(a.inventory, &item)
	}
	for _, ch := range rec.Muted {
		a.muted[ch] = true
	}
	return a
}

// record requires a.mu.
func (a *Actor) record() *ActorRecord {
	rec := &ActorRecord{
		Id:        a.Id,
		Name:      a.Name,
		Admin:     a.Admin,
		Room:      a.roomId,
		Inventory: copyItems(a.inventory),
	}
	for ch, muted := range a.muted {
		if muted {
			rec.Muted = append(rec.Muted, ch)
		}
	}
	sort.Strings(rec.Muted)
	return rec
}

// hasKeyFor requires a.mu.
func (a *Actor) hasKeyFor(l *Lock) bool {
	for _, it := range a.inventory {
		if l.Fits(it) {
			return true
		}
	}
	return false
}
