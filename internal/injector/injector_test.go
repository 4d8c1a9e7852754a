package injector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/steering/internal/core/observability/log"
	"github.com/zeusync/steering/internal/core/sim"
)

func TestInitializeApp(t *testing.T) {
	app := InitializeApp(log.LevelError, sim.Options{Workers: 2})
	require.NotNil(t, app.World)
	assert.Same(t, app.Bus, app.World.Bus())
	assert.Contains(t, app.Registry.Types(), "wander")

	s, err := sim.DefaultScenario()
	require.NoError(t, err)
	_, err = s.Populate(app.World, app.Registry, sim.SpawnOptions{})
	require.NoError(t, err)
	require.NoError(t, app.World.Step(context.Background(), 1.0/60))
	assert.Equal(t, 2, app.World.Len())
}
