package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type GatewayOpt func(*Gateway)

// Hook is told about an actor's session changing state. Hooks run on their
// own goroutine.
type Hook func(ctx context.Context, id uuid.UUID)

// WithGracePeriod sets how long a linkdead actor stays in the world.
func WithGracePeriod(d time.Duration) GatewayOpt {
	return func(g *Gateway) {
		if d > 0 {
			g.grace = d
		}
	}
}

// WithBufferSize sets how many messages are kept for a linkdead actor.
func WithBufferSize(n int) GatewayOpt {
	return func(g *Gateway) {
		if n > 0 {
			g.bufferSize = n
		}
	}
}

// WithMailboxSize sets how many operations may queue for one actor.
func WithMailboxSize(n int) GatewayOpt {
	return func(g *Gateway) {
		if n > 0 {
			g.mailboxSize = n
		}
	}
}

// WithMetrics reports state changes and delivery problems.
func WithMetrics(m Metrics) GatewayOpt {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// OnSpawned is called after a first connection spawned the actor.
func OnSpawned(h Hook) GatewayOpt {
	return func(g *Gateway) {
		g.onSpawned = h
	}
}

// OnReconnected is called after a linkdead actor got a connection back.
func OnReconnected(h Hook) GatewayOpt {
	return func(g *Gateway) {
		g.onReconnected = h
	}
}

// OnLinkdead is called when an actor loses their connection.
func OnLinkdead(h Hook) GatewayOpt {
	return func(g *Gateway) {
		g.onLinkdead = h
	}
}

// OnDespawned is called after the gateway removed an actor from the world.
func OnDespawned(h Hook) GatewayOpt {
	return func(g *Gateway) {
		g.onDespawned = h
	}
}
