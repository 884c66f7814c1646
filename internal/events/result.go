package events

import (
	"slices"

	"github.com/google/uuid"
)

// Audience selects which rendering of an event a recipient gets.
type Audience int

const (
	// Actor is the originator (or direct participant) of the event.
	Actor Audience = iota
	// Observer is a bystander.
	Observer
)

func (a Audience) String() string {
	if a == Observer {
		return "observer"
	}
	return "actor"
}

// Event is an opaque payload describing something that happened.
// Rendering to text happens outside of the command core.
type Event interface {
	EventName() string
}

// Entry is one delivery: who gets the event and in which role.
type Entry struct {
	Recipient uuid.UUID
	Event     Event
	Audience  Audience
}

// Occupied is anything with a set of present actors, such as a room.
type Occupied interface {
	OccupantIds() []uuid.UUID
}

// Result is the ordered output of a single command handler invocation.
type Result struct {
	entries []Entry
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{}
}

// Entries returns the entries in the order they were added.
func (r *Result) Entries() []Entry {
	if r == nil {
		return nil
	}
	return slices.Clone(r.entries)
}

// Len returns the number of entries.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Add sends ev to a single recipient as the actor.
func (r *Result) Add(recipient uuid.UUID, ev Event) *Result {
	return r.AddAs(recipient, ev, Actor)
}

// AddAs sends ev to a single recipient with an explicit audience.
func (r *Result) AddAs(recipient uuid.UUID, ev Event, audience Audience) *Result {
	r.entries = append(r.entries, Entry{Recipient: recipient, Event: ev, Audience: audience})
	return r
}

// Broadcast fans ev out to every recipient not excluded, as observers.
func (r *Result) Broadcast(recipients []uuid.UUID, ev Event, exclude ...uuid.UUID) *Result {
	return r.BroadcastAs(recipients, ev, Observer, exclude...)
}

// BroadcastAs fans ev out to every recipient not excluded.
func (r *Result) BroadcastAs(recipients []uuid.UUID, ev Event, audience Audience, exclude ...uuid.UUID) *Result {
	for _, id := range recipients {
		if slices.Contains(exclude, id) {
			continue
		}
		r.AddAs(id, ev, audience)
	}
	return r
}

// BroadcastToAllButPlayer sends ev to everyone in room except the actor.
func (r *Result) BroadcastToAllButPlayer(room Occupied, actor uuid.UUID, ev Event) *Result {
	return r.Broadcast(room.OccupantIds(), ev, actor)
}
