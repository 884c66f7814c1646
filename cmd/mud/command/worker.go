package command

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudcore/internal/commands"
	"github.com/pixil98/go-mudcore/internal/driver"
	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/pixil98/go-mudcore/internal/listener"
	"github.com/pixil98/go-mudcore/internal/messaging"
	"github.com/pixil98/go-mudcore/internal/metrics"
	"github.com/pixil98/go-mudcore/internal/persist"
	"github.com/pixil98/go-mudcore/internal/player"
	"github.com/pixil98/go-mudcore/internal/presenter"
	"github.com/pixil98/go-mudcore/internal/session"
	"github.com/pixil98/go-service"
)

// lateOutbound lets the dispatcher be built before the session gateway it
// delivers to.
type lateOutbound struct {
	messaging.Outbound
}

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	workers := service.WorkerList{}

	// World and saved actors
	world, err := cfg.World.BuildWorld()
	if err != nil {
		return nil, err
	}
	store, err := cfg.Persistence.BuildStore()
	if err != nil {
		return nil, err
	}
	if err := registerActors(world, store); err != nil {
		return nil, err
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(world)
		workers["metrics"] = metrics.NewServer(cfg.Metrics.port(), collector)
	}

	queueOpts := cfg.Persistence.queueOpts()
	if collector != nil {
		queueOpts = append(queueOpts, persist.WithMetrics(collector))
	}
	queue := persist.NewWriteQueue(world, store, queueOpts...)
	workers["persist"] = queue

	// Commands
	defs := commands.DefaultDefinitions()
	parser, err := commands.NewParser(world, commands.NewBinder(world), defs)
	if err != nil {
		return nil, fmt.Errorf("creating parser: %w", err)
	}
	var execOpts []commands.ExecutorOpt
	if collector != nil {
		execOpts = append(execOpts, commands.WithExecMetrics(collector))
	}
	executor, err := commands.NewExecutor(commands.NewHandlers(world, defs, commands.WithPersister(queue)), execOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating executor: %w", err)
	}

	// Delivery
	pres, err := presenter.New(cfg.Display.presenterOpts()...)
	if err != nil {
		return nil, fmt.Errorf("creating presenter: %w", err)
	}
	out := &lateOutbound{}
	dispatcher := messaging.NewDispatcher(pres, out)
	presence := player.NewPresence(world, queue, dispatcher, player.WithSyncOnDespawn(cfg.Persistence.SyncOnDespawn))

	gwOpts := append(cfg.Session.gatewayOpts(),
		session.OnSpawned(presence.Spawned),
		session.OnLinkdead(presence.Linkdead),
		session.OnReconnected(presence.Reconnected),
	)
	if collector != nil {
		gwOpts = append(gwOpts, session.WithMetrics(collector))
	}
	gateway := session.NewGateway(presence, gwOpts...)
	workers["gateway"] = gateway

	out.Outbound = gateway
	if cfg.Nats.Enabled {
		ns, err := cfg.Nats.BuildNatsServer()
		if err != nil {
			return nil, err
		}
		out.Outbound = messaging.NewNatsPublisher(ns)
		workers["nats"] = ns
		workers["relay"] = messaging.NewRelay(ns, gateway)
	}

	// Connections
	idle := player.NewIdleTicker(gateway, player.WithIdleTimeout(cfg.idleTimeout()))
	pmOpts := []player.ConnectionManagerOpt{
		player.WithInputRate(cfg.Input.Rate, cfg.Input.Burst),
		player.WithActivityTracker(idle),
	}
	var cmOpts []listener.ConnectionManagerOpt
	if collector != nil {
		pmOpts = append(pmOpts, player.WithMetrics(collector))
		cmOpts = append(cmOpts, listener.WithMetrics(collector))
	}
	pm := player.NewConnectionManager(world, queue, gateway, parser, executor, dispatcher, pmOpts...)
	cm := listener.NewConnectionManager(pm, cmOpts...)

	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lw, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("%s-%d", l.Protocol, l.Port)] = lw
	}
	workers["listeners"] = &listeners

	// Periodic upkeep
	driverOpts := []driver.DriverOpt{
		driver.WithTickLength(cfg.tickInterval()),
		driver.WithManager("autosave", queue),
		driver.WithManager("idle", idle),
	}
	if collector != nil {
		driverOpts = append(driverOpts, driver.WithManager("metrics", collector))
	}
	workers["driver"] = driver.NewDriver(driverOpts...)

	slog.Info("world loaded", "default_room", world.DefaultRoom(), "listeners", len(listeners), "nats", cfg.Nats.Enabled, "metrics", cfg.Metrics.Enabled)
	return workers, nil
}

// registerActors adds every saved actor to the world so they can log in.
func registerActors(world *game.World, store actorStore) error {
	el := errors.NewErrorList()
	for id, rec := range store.GetAll() {
		if err := world.Register(rec); err != nil {
			el.Add(fmt.Errorf("registering actor %s: %w", id, err))
		}
	}
	return el.Err()
}
