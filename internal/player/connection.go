package player

import (
	"io"
	"sync"
)

// connection is the session gateway's output channel for one connected
// player. Closing it ends the player's input loop.
type connection struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
	done   chan struct{}
}

func newConnection(w io.Writer) *connection {
	return &connection{w: w, done: make(chan struct{})}
}

func (c *connection) WriteOutput(message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return io.ErrClosedPipe
	}
	_, err := io.WriteString(c.w, message+"\n")
	return err
}

// Close stops output and wakes the input loop. The transport itself is
// closed by the listener once the loop returns.
func (c *connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
	}
	return nil
}

func (c *connection) Done() <-chan struct{} {
	return c.done
}
