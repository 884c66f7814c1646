package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/session"
)

type SessionConfig struct {
	// GracePeriod is how long a linkdead actor stays in the world.
	GracePeriod  string `json:"grace_period" env:"GRACE_PERIOD"`
	ReplayBuffer int    `json:"replay_buffer" env:"REPLAY_BUFFER"`
	Mailbox      int    `json:"mailbox" env:"MAILBOX"`
}

func (c *SessionConfig) Validate() error {
	el := errors.NewErrorList()

	if d, err := parseDuration(c.GracePeriod, session.DefaultGracePeriod); err != nil {
		el.Add(fmt.Errorf("session: parsing grace_period: %w", err))
	} else if d == 0 {
		el.Add(fmt.Errorf("session: grace_period must be positive"))
	}
	if c.ReplayBuffer < 0 {
		el.Add(fmt.Errorf("session: replay_buffer must not be negative"))
	}
	if c.Mailbox < 0 {
		el.Add(fmt.Errorf("session: mailbox must not be negative"))
	}

	return el.Err()
}

func (c *SessionConfig) gatewayOpts() []session.GatewayOpt {
	grace, _ := parseDuration(c.GracePeriod, session.DefaultGracePeriod)
	return []session.GatewayOpt{
		session.WithGracePeriod(grace),
		session.WithBufferSize(c.ReplayBuffer),
		session.WithMailboxSize(c.Mailbox),
	}
}
