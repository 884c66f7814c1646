package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/pixil98/go-mudcore/internal/storage"
)

type WorldConfig struct {
	// Rooms is the directory of room asset files.
	Rooms       string `json:"rooms" env:"ROOMS"`
	DefaultRoom string `json:"default_room" env:"DEFAULT_ROOM"`
}

func (c *WorldConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Rooms == "" {
		el.Add(fmt.Errorf("world: rooms path is required"))
	} else if _, err := os.Stat(c.Rooms); err != nil {
		el.Add(fmt.Errorf("world: invalid rooms path %q: %w", c.Rooms, err))
	}
	if c.DefaultRoom == "" {
		el.Add(fmt.Errorf("world: default_room is required"))
	}

	return el.Err()
}

// BuildWorld loads every room asset and builds the world from them.
func (c *WorldConfig) BuildWorld() (*game.World, error) {
	store, err := storage.NewFileStore[*game.Room](c.Rooms)
	if err != nil {
		return nil, fmt.Errorf("loading rooms: %w", err)
	}

	world, err := game.NewWorld(store.GetAll(), game.WithDefaultRoom(c.DefaultRoom))
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}
	return world, nil
}
