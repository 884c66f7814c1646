package game

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
)

// Exit defines a destination for movement from a room.
type Exit struct {
	// Direction is the primary name of the exit (e.g., "north").
	Direction string `json:"direction"`

	// Aliases are alternate names (e.g., "n").
	Aliases []string `json:"aliases,omitempty"`

	// Keywords describe the exit (e.g., "door", "oak").
	Keywords []string `json:"keywords,omitempty"`

	// Destination is the room id this exit leads to.
	Destination string `json:"destination"`

	// Hidden exits are left out of room descriptions but can still be
	// used when named.
	Hidden bool `json:"hidden,omitempty"`

	Description string   `json:"description,omitempty"`
	Closure     *Closure `json:"closure,omitempty"`
}

// Room represents a location in the world.
type Room struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Exits       []Exit     `json:"exits,omitempty"`
	Items       []ItemSpec `json:"items,omitempty"`
}

// Validate satisfies storage.ValidatingSpec. Exit destinations are checked
// against the full room set by NewWorld.
func (r *Room) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}

	seen := map[string]bool{}
	for i, exit := range r.Exits {
		if exit.Direction == "" {
			el.Add(fmt.Errorf("exit %d: direction is required", i))
		}
		if seen[exit.Direction] {
			el.Add(fmt.Errorf("exit %s: duplicate direction", exit.Direction))
		}
		seen[exit.Direction] = true
		if exit.Destination == "" {
			el.Add(fmt.Errorf("exit %s: destination is required", exit.Direction))
		}
		if exit.Closure != nil {
			if exit.Closure.Name == "" {
				el.Add(fmt.Errorf("exit %s: closure name is required", exit.Direction))
			}
			el.Add(exit.Closure.Validate())
		}
	}

	for i := range r.Items {
		if err := r.Items[i].Validate(); err != nil {
			el.Add(fmt.Errorf("item %d: %w", i, err))
		}
	}

	return el.Err()
}

// ExitState is an exit together with its current closure state.
type ExitState struct {
	Exit
	State ClosureState
}

// RoomInstance is the runtime state of a Room. The definition is immutable;
// items, occupants and exit states are guarded by mu.
type RoomInstance struct {
	Id   string
	Room *Room

	mu        sync.Mutex
	exits     []ExitState
	items     []*Item
	occupants []uuid.UUID
}

// NewRoomInstance builds the runtime state for a room, spawning its items.
func NewRoomInstance(id string, room *Room) *RoomInstance {
	ri := &RoomInstance{
		Id:   id,
		Room: room,
	}
	for _, exit := range room.Exits {
		ri.exits = append(ri.exits, ExitState{Exit: exit, State: initialState(exit.Closure)})
	}
	for _, spec := range room.Items {
		it := NewItem(spec)
		it.Container = roomContainer(id)
		ri.items = append(ri.items, it)
	}
	return ri
}

// RoomView is a point-in-time copy of a room's state.
type RoomView struct {
	Id          string
	Name        string
	Description string
	Exits       []ExitState
	Items       []Item
	Occupants   []ActorInfo
}

// OccupantIds returns the ids of everyone in the room, in arrival order.
func (v RoomView) OccupantIds() []uuid.UUID {
	ids := make([]uuid.UUID, len(v.Occupants))
	for i, o := range v.Occupants {
		ids[i] = o.Id
	}
	return ids
}

// VisibleExits returns the exits shown in room descriptions.
func (v RoomView) VisibleExits() []ExitState {
	var out []ExitState
	for _, e := range v.Exits {
		if !e.Hidden {
			out = append(out, e)
		}
	}
	return out
}

func (ri *RoomInstance) exitIndex(direction string) int {
	for i, e := range ri.exits {
		if e.Direction == direction {
			return i
		}
	}
	return -1
}

// addOccupant and removeOccupant require ri.mu.
func (ri *RoomInstance) addOccupant(id uuid.UUID) {
	if !slices.Contains(ri.occupants, id) {
		ri.occupants = append(ri.occupants, id)
	}
}

func (ri *RoomInstance) removeOccupant(id uuid.UUID) {
	if i := slices.Index(ri.occupants, id); i >= 0 {
		ri.occupants = slices.Delete(ri.occupants, i, i+1)
	}
}
