package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
)

// ItemSpec is the authored definition of an item, as found inline in room
// assets and in saved inventories.
type ItemSpec struct {
	// Name is used in action messages (e.g., "You take a rusty sword.")
	Name string `json:"name"`

	// Keywords are extra words players can use to target this item.
	Keywords []string `json:"keywords,omitempty"`

	// Description is shown when the item is examined.
	Description string `json:"description,omitempty"`

	// Closure makes the item openable (a chest, a box).
	Closure *Closure `json:"closure,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (s *ItemSpec) Validate() error {
	el := errors.NewErrorList()
	if s.Name == "" {
		el.Add(fmt.Errorf("item name is required"))
	}
	if s.Closure != nil {
		el.Add(s.Closure.Validate())
	}
	return el.Err()
}

// ContainerKind says what kind of container holds an item.
type ContainerKind string

const (
	ContainerRoom  ContainerKind = "room"
	ContainerActor ContainerKind = "actor"
)

// ContainerRef identifies the single container that owns an item.
type ContainerRef struct {
	Kind ContainerKind `json:"kind"`
	Id   string        `json:"id"`
}

func roomContainer(roomId string) ContainerRef {
	return ContainerRef{Kind: ContainerRoom, Id: roomId}
}

func actorContainer(id uuid.UUID) ContainerRef {
	return ContainerRef{Kind: ContainerActor, Id: id.String()}
}

// Item is a single item instance. An item is owned by exactly one container
// at a time; the container's lock guards the item's mutable fields.
type Item struct {
	ItemSpec

	Id        uuid.UUID    `json:"id"`
	State     ClosureState `json:"state,omitempty"`
	Container ContainerRef `json:"-"`
}

// NewItem creates a fresh item instance from a spec.
func NewItem(spec ItemSpec) *Item {
	return &Item{
		ItemSpec: spec,
		Id:       uuid.New(),
		State:    initialState(spec.Closure),
	}
}

// ClosureName is the label used when talking about the item's closure.
func (it *Item) ClosureName() string {
	if it.Closure != nil && it.Closure.Name != "" {
		return it.Closure.Name
	}
	return it.Name
}

func indexOfItem(items []*Item, id uuid.UUID) int {
	for i, it := range items {
		if it.Id == id {
			return i
		}
	}
	return -1
}

func removeItem(items []*Item, i int) []*Item {
	return append(items[:i:i], items[i+1:]...)
}

func copyItems(items []*Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = *it
	}
	return out
}
