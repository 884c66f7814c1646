package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/pixil98/go-mudcore/internal/persist"
	"github.com/pixil98/go-mudcore/internal/storage"
)

type PersistBackend int

const (
	PersistBackendFile PersistBackend = iota
	PersistBackendBolt
)

func (b *PersistBackend) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "file":
		*b = PersistBackendFile
	case "bolt":
		*b = PersistBackendBolt
	default:
		return fmt.Errorf("unknown persistence backend: %s", text)
	}
	return nil
}

type PersistConfig struct {
	Backend PersistBackend `json:"backend" env:"BACKEND"`

	// Path is a directory for the file backend and a database file for bolt.
	Path             string `json:"path" env:"PATH"`
	QueueSize        int    `json:"queue_size" env:"QUEUE_SIZE"`
	SyncOnDespawn    bool   `json:"sync_on_despawn" env:"SYNC_ON_DESPAWN"`
	AutosaveInterval string `json:"autosave_interval" env:"AUTOSAVE_INTERVAL"`
}

// actorStore is where actor records are saved and loaded from at startup.
type actorStore interface {
	persist.Saver
	GetAll() map[string]*game.ActorRecord
}

func (c *PersistConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Path == "" {
		el.Add(fmt.Errorf("persistence: path is required"))
	}
	if c.QueueSize < 0 {
		el.Add(fmt.Errorf("persistence: queue_size must not be negative"))
	}
	if _, err := parseDuration(c.AutosaveInterval, persist.DefaultAutosaveInterval); err != nil {
		el.Add(fmt.Errorf("persistence: parsing autosave_interval: %w", err))
	}

	return el.Err()
}

func (c *PersistConfig) BuildStore() (actorStore, error) {
	switch c.Backend {
	case PersistBackendFile:
		s, err := storage.NewFileStore[*game.ActorRecord](c.Path, storage.WithCreate())
		if err != nil {
			return nil, fmt.Errorf("opening actor files: %w", err)
		}
		return s, nil
	case PersistBackendBolt:
		s, err := persist.OpenBoltStore[*game.ActorRecord](c.Path, persist.ActorBucket)
		if err != nil {
			return nil, fmt.Errorf("opening actor database: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown persistence backend: %v", c.Backend)
	}
}

func (c *PersistConfig) queueOpts() []persist.WriteQueueOpt {
	autosave, _ := parseDuration(c.AutosaveInterval, persist.DefaultAutosaveInterval)
	opts := []persist.WriteQueueOpt{persist.WithAutosaveInterval(autosave)}
	if c.QueueSize > 0 {
		opts = append(opts, persist.WithQueueSize(c.QueueSize))
	}
	return opts
}
