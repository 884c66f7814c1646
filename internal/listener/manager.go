package listener

import (
	"context"
	"io"
	"log/slog"
)

// Acceptor runs a player on a connection until it is done with it.
type Acceptor interface {
	AcceptConnection(ctx context.Context, rw io.ReadWriter)
}

// Metrics observes accepted connections.
type Metrics interface {
	ConnectionAccepted(transport string)
}

type ConnectionManagerOpt func(*ConnectionManager)

func WithMetrics(m Metrics) ConnectionManagerOpt {
	return func(cm *ConnectionManager) {
		cm.metrics = m
	}
}

// ConnectionManager hands connections from every listener to the player
// layer.
type ConnectionManager struct {
	acceptor Acceptor
	metrics  Metrics
}

func NewConnectionManager(a Acceptor, opts ...ConnectionManagerOpt) *ConnectionManager {
	cm := &ConnectionManager{acceptor: a}
	for _, opt := range opts {
		opt(cm)
	}
	return cm
}

// AcceptConnection blocks until the player is finished with conn. Closing
// the transport is left to the listener.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, transport string, conn io.ReadWriter) {
	if m.metrics != nil {
		m.metrics.ConnectionAccepted(transport)
	}
	slog.DebugContext(ctx, "connection accepted", "transport", transport)
	m.acceptor.AcceptConnection(ctx, conn)
}
