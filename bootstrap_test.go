package particles

import (
	"path/filepath"
	"testing"

	"github.com/gekko3d/particles/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headlessConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Defaults()
	require.NoError(t, err)
	cfg.Particles.Count = 32
	cfg.Renderer.Backend = string(BackendCPU)
	cfg.Headless.Frames = 5
	cfg.Headless.Width, cfg.Headless.Height = 40, 30
	cfg.Log.Prefix = "test"
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestModulesHeadlessHasNoWindow(t *testing.T) {
	for _, m := range Modules(headlessConfig(t)) {
		assert.NotIsType(t, PlatformWindowModule{}, m)
		assert.NotIsType(t, InputModule{}, m)
	}
}

func TestNewAppHeadlessRun(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Telemetry.OutputDir = t.TempDir()
	cfg.Telemetry.Every = 1

	app := NewApp(cfg)
	require.NoError(t, app.Run())

	sim, ok := Resource[Simulation](app.Commands())
	require.True(t, ok)
	assert.Equal(t, uint64(5), sim.Updates)
	assert.Equal(t, BackendCPU, sim.Backend)
	assert.Nil(t, sim.Device, "released on shutdown")
	assert.FileExists(t, filepath.Join(cfg.Telemetry.OutputDir, "telemetry.csv"))
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("gpu")
	require.NoError(t, err)
	assert.Equal(t, BackendGPU, b)

	b, err = ParseBackend("cpu")
	require.NoError(t, err)
	assert.Equal(t, BackendCPU, b)

	_, err = ParseBackend("metal")
	assert.ErrorContains(t, err, "unknown backend")
}
