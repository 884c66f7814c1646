package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
)

// Manager is anything with periodic upkeep: autosaves, idle kicks, gauges.
type Manager interface {
	Tick(context.Context) error
}

type namedManager struct {
	name string
	Manager
}

// Driver runs every manager once per tick, in registration order.
type Driver struct {
	tickLength time.Duration
	managers   []namedManager
}

func NewDriver(opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	slog.InfoContext(ctx, "driver started", "tick", d.tickLength, "managers", len(d.managers))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs each manager. A failing manager is logged and skipped until the
// next tick so one bad autosave doesn't stop the rest of the upkeep.
func (d *Driver) Tick(ctx context.Context) {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			slog.ErrorContext(ctx, "tick failed", "manager", m.name, "error", err)
		}
	}
}
