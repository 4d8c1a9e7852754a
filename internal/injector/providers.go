package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/steering/internal/core/events/bus"
	"github.com/zeusync/steering/internal/core/observability/log"
	"github.com/zeusync/steering/internal/core/sim"
	"github.com/zeusync/steering/internal/core/steering"
)

// App is everything the simulator binary needs.
type App struct {
	Logger   *log.Logger
	Bus      bus.EventBus
	World    *sim.World
	Registry steering.Registry
}

func NewApp(logger *log.Logger, b bus.EventBus, w *sim.World, reg steering.Registry) *App {
	return &App{Logger: logger, Bus: b, World: w, Registry: reg}
}

func ProvideLogger(level log.Level) *log.Logger {
	return log.New(level)
}

// ProvideRegistry returns a registry holding every built-in behavior type.
func ProvideRegistry() steering.Registry {
	reg := steering.NewRegistry()
	steering.RegisterBuiltins(reg)
	return reg
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	bus.New,
	sim.NewWorld,
	ProvideRegistry,
	NewApp,
)
