// Package config loads the simulation configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/gekko3d/particles/rt/core"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Particles ParticlesConfig `yaml:"particles"`
	Params    ParamsConfig    `yaml:"params"`
	Camera    CameraConfig    `yaml:"camera"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Sprite    SpriteConfig    `yaml:"sprite"`
	Headless  HeadlessConfig  `yaml:"headless"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type ParticlesConfig struct {
	Count        int  `yaml:"count"`
	RandomHeight bool `yaml:"random_height"` // y = hash(i+2)*10 instead of 0
}

// ParamsConfig holds the initial knob values. They are clamped to the panel ranges.
type ParamsConfig struct {
	Gravity  float32 `yaml:"gravity"`
	Bounce   float32 `yaml:"bounce"`
	Friction float32 `yaml:"friction"`
	Size     float32 `yaml:"size"`
}

type CameraConfig struct {
	Fov         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Position    [3]float32 `yaml:"position"`
	Target      [3]float32 `yaml:"target"`
	MinDistance float32    `yaml:"min_distance"`
	MaxDistance float32    `yaml:"max_distance"`
	RotateSpeed float32    `yaml:"rotate_speed"` // radians per pixel
	ZoomStep    float32    `yaml:"zoom_step"`    // distance factor per scroll notch
}

type RendererConfig struct {
	Backend    string   `yaml:"backend"` // gpu | cpu
	ClearColor [4]uint8 `yaml:"clear_color"`
	Grid       bool     `yaml:"grid"`
}

type SpriteConfig struct {
	Path string `yaml:"path"` // PNG; empty uses a procedural disc
	Size int    `yaml:"size"`
}

// HeadlessConfig runs without a window when Frames > 0.
type HeadlessConfig struct {
	Frames    int    `yaml:"frames"`
	OutputDir string `yaml:"output_dir"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
}

type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"`
	Every     int    `yaml:"every"`
}

type LogConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	return cfg, nil
}

func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsHeadless() bool { return c.Headless.Frames > 0 }

// Validate rejects configurations the simulation cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Particles.Count < 1 {
		errs = append(errs, fmt.Errorf("particles.count must be >= 1, got %d", c.Particles.Count))
	}
	switch c.Renderer.Backend {
	case "gpu", "cpu":
	default:
		errs = append(errs, fmt.Errorf("renderer.backend must be gpu or cpu, got %q", c.Renderer.Backend))
	}
	if c.Renderer.Backend == "cpu" && !c.IsHeadless() {
		errs = append(errs, errors.New("renderer.backend cpu requires headless.frames > 0"))
	}
	if c.IsHeadless() && c.Renderer.Backend == "gpu" {
		errs = append(errs, errors.New("headless runs need renderer.backend cpu"))
	}
	if c.IsHeadless() {
		if c.Headless.Width <= 0 || c.Headless.Height <= 0 {
			errs = append(errs, fmt.Errorf("headless size must be positive, got %dx%d", c.Headless.Width, c.Headless.Height))
		}
	} else if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera needs 0 < near < far, got near=%g far=%g", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MaxDistance < c.Camera.MinDistance {
		errs = append(errs, fmt.Errorf("camera needs 0 < min_distance <= max_distance, got %g..%g", c.Camera.MinDistance, c.Camera.MaxDistance))
	}
	if c.Sprite.Path == "" && c.Sprite.Size < 1 {
		errs = append(errs, fmt.Errorf("sprite.size must be >= 1, got %d", c.Sprite.Size))
	}
	return errors.Join(errs...)
}

// ParamValues returns the initial knob values clamped to the panel ranges.
func (c *Config) ParamValues() core.ParamValues {
	return core.ClampToControls(core.ParamValues{
		Gravity:  c.Params.Gravity,
		Bounce:   c.Params.Bounce,
		Friction: c.Params.Friction,
		Size:     c.Params.Size,
	})
}
