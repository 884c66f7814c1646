package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/messaging"
)

// NatsConfig turns on the embedded NATS server. When enabled, rendered
// output is published per actor and relayed back to the session gateway.
type NatsConfig struct {
	Enabled      bool   `json:"enabled" env:"ENABLED"`
	Host         string `json:"host" env:"HOST"`
	Port         int    `json:"port" env:"PORT"`
	StartTimeout string `json:"start_timeout" env:"START_TIMEOUT"`
}

func (c *NatsConfig) Validate() error {
	el := errors.NewErrorList()

	if c.StartTimeout != "" {
		if _, err := time.ParseDuration(c.StartTimeout); err != nil {
			el.Add(fmt.Errorf("parsing nats start_timeout: %w", err))
		}
	}
	if c.Port < -1 || c.Port > 65535 {
		el.Add(fmt.Errorf("nats port %d is out of range", c.Port))
	}

	return el.Err()
}

func (c *NatsConfig) BuildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, messaging.WithPort(c.Port))
	}

	s, err := messaging.NewNatsServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	return s, nil
}
