//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/steering/internal/core/observability/log"
	"github.com/zeusync/steering/internal/core/sim"
)

func InitializeApp(level log.Level, opts sim.Options) *App {
	wire.Build(ProviderSet)
	return nil
}
