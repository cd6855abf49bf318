package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/particles/rt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10000, cfg.Particles.Count)
	assert.False(t, cfg.Particles.RandomHeight)
	assert.Equal(t, "gpu", cfg.Renderer.Backend)
	assert.Equal(t, [4]uint8{0, 0, 0, 255}, cfg.Renderer.ClearColor)
	assert.Equal(t, [3]float32{0, 30, 0}, cfg.Camera.Position)
	assert.Equal(t, float32(50), cfg.Camera.Fov)
	assert.False(t, cfg.IsHeadless())
	assert.Equal(t, core.DefaultParamValues(), cfg.ParamValues())
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := writeConfig(t, `
particles:
  count: 4
params:
  bounce: 0.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Particles.Count)
	assert.Equal(t, float32(0.5), cfg.Params.Bounce)
	assert.Equal(t, float32(0.99), cfg.Params.Friction)
	assert.Equal(t, 1280, cfg.Window.Width)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")

	_, err = Load(writeConfig(t, "particles: [not, a, map]"))
	assert.ErrorContains(t, err, "parsing config file")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"empty population", func(c *Config) { c.Particles.Count = 0 }, "particles.count"},
		{"unknown backend", func(c *Config) { c.Renderer.Backend = "vulkan" }, "renderer.backend"},
		{"cpu needs headless", func(c *Config) { c.Renderer.Backend = "cpu" }, "requires headless"},
		{"headless needs cpu", func(c *Config) { c.Headless.Frames = 10 }, "headless runs need"},
		{"zero window", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"zero headless surface", func(c *Config) {
			c.Renderer.Backend = "cpu"
			c.Headless.Frames = 1
			c.Headless.Height = 0
		}, "headless size"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.01 }, "near < far"},
		{"distance range", func(c *Config) { c.Camera.MaxDistance = 1 }, "min_distance"},
		{"sprite size", func(c *Config) { c.Sprite.Size = 0 }, "sprite.size"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Defaults()
			require.NoError(t, err)
			tc.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}

func TestValidateHeadlessCPU(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	cfg.Renderer.Backend = "cpu"
	cfg.Headless.Frames = 30
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsHeadless())
}

func TestParamValuesAreClamped(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	cfg.Params.Gravity = -1
	cfg.Params.Size = 3

	v := cfg.ParamValues()
	assert.Equal(t, float32(-0.0098), v.Gravity)
	assert.Equal(t, float32(0.5), v.Size)
}
