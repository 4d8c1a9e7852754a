package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/steering/internal/core/events/bus"
	"github.com/zeusync/steering/internal/core/observability/debugdraw"
	"github.com/zeusync/steering/internal/core/observability/log"
	"github.com/zeusync/steering/internal/core/sim"
	"github.com/zeusync/steering/internal/core/steering"
	"github.com/zeusync/steering/internal/core/tuning"
	"github.com/zeusync/steering/internal/injector"
)

type options struct {
	scenario string
	weights  string
	ticks    int
	dt       float64
	realtime bool
	report   int
	seed     uint64
	debug    bool
	logLevel string
	workers  int
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.scenario, "scenario", "", "scenario YAML file (default: built-in combined steering)")
	flag.StringVar(&o.weights, "weights", "", "blended weight YAML file, reloaded on change")
	flag.IntVar(&o.ticks, "ticks", 600, "steps to run, 0 runs until interrupted")
	flag.Float64Var(&o.dt, "dt", 1.0/60, "step duration in seconds")
	flag.BoolVar(&o.realtime, "realtime", false, "pace steps to wall-clock time")
	flag.IntVar(&o.report, "report", 60, "log agent state every N steps, 0 disables")
	flag.Uint64Var(&o.seed, "seed", 0, "override the scenario seed")
	flag.BoolVar(&o.debug, "debug", false, "emit debug shapes as log entries (implies -log-level debug)")
	flag.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	flag.IntVar(&o.workers, "workers", 0, "max agents evaluated concurrently, 0 for one goroutine per agent")
	flag.Parse()
	return o
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "steersim:", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if o.dt <= 0 {
		return fmt.Errorf("invalid -dt %v", o.dt)
	}
	level, err := log.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	if o.debug {
		level = log.LevelDebug
	}

	app := injector.InitializeApp(level, sim.Options{Workers: o.workers})
	logger := app.Logger
	defer func() { _ = logger.Sync() }()

	scenario, err := loadScenario(o.scenario)
	if err != nil {
		return err
	}

	spawnOpts := sim.SpawnOptions{Seed: o.seed}
	if o.debug {
		drawer := debugdraw.NewLogger(logger.Named("draw"))
		spawnOpts.Drawer = func(agent string) steering.DebugDrawer {
			return drawer.With(log.String("agent", agent))
		}
	}
	spawned, err := scenario.Populate(app.World, app.Registry, spawnOpts)
	if err != nil {
		return err
	}
	logger.Info("scenario loaded", log.String("name", scenario.Name), log.Int("agents", len(spawned)))

	invalid := 0
	sub, err := app.Bus.Subscribe(sim.EventAgentSteered, func(e bus.Event) error {
		if ev, ok := e.Data().(sim.SteeredEvent); ok && !ev.Output.IsValid {
			invalid++
		}
		return nil
	})
	if err != nil {
		return err
	}
	defer func() { _ = sub.Cancel() }()

	var updates <-chan *tuning.WeightSet
	if o.weights != "" {
		ws, err := tuning.LoadWeightsFile(o.weights)
		if err != nil {
			return err
		}
		applyWeights(logger, spawned, ws)

		watcher, err := tuning.NewWatcher(o.weights, tuning.WithLogger(logger))
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()
		updates = watcher.Updates
		go func() {
			for err := range watcher.Errors {
				logger.Warn("weights reload failed", log.Error(err))
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stopCh)
	go func() {
		select {
		case sig := <-stopCh:
			logger.Info("stopping", log.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	var tick <-chan time.Time
	if o.realtime {
		ticker := time.NewTicker(time.Duration(o.dt * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}

	started := time.Now()
loop:
	for i := 0; o.ticks == 0 || i < o.ticks; i++ {
		select {
		case ws, ok := <-updates:
			if !ok {
				updates = nil
				break
			}
			applyWeights(logger, spawned, ws)
		default:
		}

		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				break loop
			}
		}

		if err := app.World.Step(ctx, o.dt); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			return err
		}
		if o.report > 0 && app.World.Tick()%uint64(o.report) == 0 {
			reportAgents(logger, app.World)
		}
	}

	reportAgents(logger, app.World)
	logger.Info("simulation finished",
		log.Int64("ticks", int64(app.World.Tick())),
		log.Int("invalid_outputs", invalid),
		log.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func loadScenario(path string) (*sim.Scenario, error) {
	if path == "" {
		return sim.DefaultScenario()
	}
	return sim.LoadScenarioFile(path)
}

func applyWeights(logger log.Log, spawned []sim.Spawned, ws *tuning.WeightSet) {
	for _, s := range spawned {
		changed, err := tuning.Apply(s.Tree, ws)
		if err != nil {
			logger.Warn("weights rejected", log.String("agent", s.Agent.Name()), log.Error(err))
			continue
		}
		if changed > 0 {
			logger.Info("weights applied", log.String("agent", s.Agent.Name()), log.Int("changed", changed))
		}
	}
}

func reportAgents(logger log.Log, w *sim.World) {
	for _, a := range w.Agents() {
		pos, vel := a.Position(), a.LinearVelocity()
		logger.Info("agent",
			log.Int64("tick", int64(w.Tick())),
			log.String("name", a.Name()),
			log.Float64s("position", pos.X(), pos.Y()),
			log.Float64s("velocity", vel.X(), vel.Y()),
			log.Float64("orientation", a.Orientation()),
			log.Float64("max_speed", a.MaxLinearSpeed()),
		)
	}
}
