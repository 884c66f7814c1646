package command

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/driver"
	"github.com/pixil98/go-mudcore/internal/player"
	"github.com/pixil98/go-mudcore/internal/presenter"
)

// EnvPrefix is prepended to every environment override, e.g.
// MUD_SESSION_GRACE_PERIOD.
const EnvPrefix = "MUD_"

type Config struct {
	TickInterval string           `json:"tick_interval" env:"TICK_INTERVAL"`
	IdleTimeout  string           `json:"idle_timeout" env:"IDLE_TIMEOUT"`
	Listeners    []ListenerConfig `json:"listeners"`
	Session      SessionConfig    `json:"session" envPrefix:"SESSION_"`
	World        WorldConfig      `json:"world" envPrefix:"WORLD_"`
	Display      DisplayConfig    `json:"display" envPrefix:"DISPLAY_"`
	Persistence  PersistConfig    `json:"persistence" envPrefix:"PERSISTENCE_"`
	Nats         NatsConfig       `json:"nats" envPrefix:"NATS_"`
	Metrics      MetricsConfig    `json:"metrics" envPrefix:"METRICS_"`
	Input        InputConfig      `json:"input" envPrefix:"INPUT_"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if d, err := parseDuration(c.TickInterval, driver.DefaultTickLength); err != nil {
		el.Add(fmt.Errorf("parsing tick_interval: %w", err))
	} else if d < 100*time.Millisecond {
		el.Add(fmt.Errorf("tick_interval must be at least 100ms"))
	}

	if _, err := parseDuration(c.IdleTimeout, player.DefaultIdleTimeout); err != nil {
		el.Add(fmt.Errorf("parsing idle_timeout: %w", err))
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		if err := l.Validate(); err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Session.Validate())
	el.Add(c.World.Validate())
	el.Add(c.Display.Validate())
	el.Add(c.Persistence.Validate())
	el.Add(c.Nats.Validate())
	el.Add(c.Metrics.Validate())
	el.Add(c.Input.Validate())

	return el.Err()
}

// ApplyEnv overrides config values with MUD_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

func (c *Config) tickInterval() time.Duration {
	d, _ := parseDuration(c.TickInterval, driver.DefaultTickLength)
	return d
}

func (c *Config) idleTimeout() time.Duration {
	d, _ := parseDuration(c.IdleTimeout, player.DefaultIdleTimeout)
	return d
}

// parseDuration treats an empty string as def.
func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", s)
	}
	return d, nil
}

type InputConfig struct {
	Rate  float64 `json:"rate" env:"RATE"`
	Burst int     `json:"burst" env:"BURST"`
}

func (c *InputConfig) Validate() error {
	el := errors.NewErrorList()
	if c.Rate < 0 {
		el.Add(fmt.Errorf("input rate must not be negative"))
	}
	if c.Burst < 0 {
		el.Add(fmt.Errorf("input burst must not be negative"))
	}
	return el.Err()
}

type DisplayConfig struct {
	// Width is the column output is wrapped at. Zero uses the default,
	// a negative width turns wrapping off.
	Width int `json:"width" env:"WIDTH"`

	// Templates overrides event templates by key, e.g. "say.observer".
	Templates map[string]string `json:"templates,omitempty"`
}

func (c *DisplayConfig) Validate() error {
	if c.Width > 0 && c.Width < 20 {
		return fmt.Errorf("display width must be at least 20")
	}
	return nil
}

func (c *DisplayConfig) presenterOpts() []presenter.PresenterOpt {
	var opts []presenter.PresenterOpt
	switch {
	case c.Width > 0:
		opts = append(opts, presenter.WithWidth(c.Width))
	case c.Width < 0:
		opts = append(opts, presenter.WithWidth(0))
	}
	if len(c.Templates) > 0 {
		opts = append(opts, presenter.WithTemplates(c.Templates))
	}
	return opts
}
