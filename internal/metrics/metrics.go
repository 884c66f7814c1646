package metrics

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/pixil98/go-mudcore/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mud"

// World is what the spawned actor gauge is refreshed from.
type World interface {
	ActiveActors() []game.ActorInfo
}

// Collector holds every metric the server exports. It satisfies the
// metrics interfaces of the session gateway, command executor and persist
// queue.
type Collector struct {
	registry *prometheus.Registry
	world    World

	sessions         *prometheus.GaugeVec
	replayEvicted    prometheus.Counter
	deliveryFailures prometheus.Counter
	commands         *prometheus.CounterVec
	snapshots        *prometheus.CounterVec
	actorsSpawned    prometheus.Gauge
	connections      *prometheus.CounterVec
	inputThrottled   prometheus.Counter
}

// NewCollector registers every metric on a registry of its own.
func NewCollector(world World) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		world:    world,
		sessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Sessions by state.",
		}, []string{"state"}),
		replayEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replay_evicted_total",
			Help:      "Messages dropped from full linkdead replay buffers.",
		}),
		deliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_failures_total",
			Help:      "Writes to an attached connection that failed.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Executed commands by command and result.",
		}, []string{"command", "result"}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actor_snapshots_total",
			Help:      "Actor snapshots by result.",
		}, []string{"result"}),
		actorsSpawned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "actors_spawned",
			Help:      "Actors currently in the world.",
		}),
		connections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Accepted connections by transport.",
		}, []string{"transport"}),
		inputThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_throttled_total",
			Help:      "Input lines rejected by flood control.",
		}),
	}

	c.registry.MustRegister(
		c.sessions,
		c.replayEvicted,
		c.deliveryFailures,
		c.commands,
		c.snapshots,
		c.actorsSpawned,
		c.connections,
		c.inputThrottled,
	)

	return c
}

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// StateChanged moves one session between the state gauges. Detached
// sessions are not counted.
func (c *Collector) StateChanged(from, to session.State) {
	if from != session.Detached {
		c.sessions.WithLabelValues(from.String()).Dec()
	}
	if to != session.Detached {
		c.sessions.WithLabelValues(to.String()).Inc()
	}
}

func (c *Collector) ReplayEvicted() {
	c.replayEvicted.Inc()
}

func (c *Collector) DeliveryFailed() {
	c.deliveryFailures.Inc()
}

func (c *Collector) CommandExecuted(name string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.commands.WithLabelValues(name, result).Inc()
}

func (c *Collector) SnapshotSaved() {
	c.snapshots.WithLabelValues("saved").Inc()
}

func (c *Collector) SnapshotDropped() {
	c.snapshots.WithLabelValues("dropped").Inc()
}

func (c *Collector) SnapshotFailed() {
	c.snapshots.WithLabelValues("failed").Inc()
}

func (c *Collector) ConnectionAccepted(transport string) {
	c.connections.WithLabelValues(transport).Inc()
}

func (c *Collector) InputThrottled(uuid.UUID) {
	c.inputThrottled.Inc()
}

// Tick refreshes gauges that are sampled rather than counted.
func (c *Collector) Tick(context.Context) error {
	if c.world != nil {
		c.actorsSpawned.Set(float64(len(c.world.ActiveActors())))
	}
	return nil
}
