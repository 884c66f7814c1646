package session

import "errors"

var (
	// ErrMailboxFull means an actor's supervisor is too far behind to accept
	// more output. The message was dropped.
	ErrMailboxFull = errors.New("session mailbox full")

	// ErrStopped is returned once the gateway has shut down.
	ErrStopped = errors.New("session gateway stopped")

	errNoSession = errors.New("no session")
)
