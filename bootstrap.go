package particles

import (
	"image/color"

	"github.com/gekko3d/particles/config"
	"github.com/go-gl/mathgl/mgl32"
)

// Modules returns the module set for cfg in install order. Headless
// configurations get a fixed viewport instead of a window and no input.
func Modules(cfg *config.Config) []Module {
	mods := []Module{
		LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug},
		TimeModule{},
		AssetServerModule{},
	}

	interactive := !cfg.IsHeadless()
	if interactive {
		mods = append(mods,
			NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title),
			InputModule{},
		)
	} else {
		mods = append(mods, HeadlessModule{
			Frames: cfg.Headless.Frames,
			Dir:    cfg.Headless.OutputDir,
			Width:  cfg.Headless.Width,
			Height: cfg.Headless.Height,
		})
	}

	cc := cfg.Renderer.ClearColor
	mods = append(mods,
		ParamsModule{Initial: cfg.ParamValues(), Keys: interactive},
		OrbitCameraModule{
			Position:    mgl32.Vec3(cfg.Camera.Position),
			Target:      mgl32.Vec3(cfg.Camera.Target),
			FovDegrees:  cfg.Camera.Fov,
			Near:        cfg.Camera.Near,
			Far:         cfg.Camera.Far,
			MinDistance: cfg.Camera.MinDistance,
			MaxDistance: cfg.Camera.MaxDistance,
			Interactive: interactive,
			RotateSpeed: cfg.Camera.RotateSpeed,
			ZoomStep:    cfg.Camera.ZoomStep,
		},
		ParticlesModule{
			Count:        cfg.Particles.Count,
			RandomHeight: cfg.Particles.RandomHeight,
			Backend:      Backend(cfg.Renderer.Backend),
			Device: DeviceOptions{
				ClearColor: color.RGBA{R: cc[0], G: cc[1], B: cc[2], A: cc[3]},
				Grid:       cfg.Renderer.Grid,
			},
			SpritePath: cfg.Sprite.Path,
			SpriteSize: cfg.Sprite.Size,
		},
	)
	if cfg.Telemetry.OutputDir != "" {
		mods = append(mods, TelemetryModule{Dir: cfg.Telemetry.OutputDir, Every: cfg.Telemetry.Every})
	}
	return mods
}

// NewApp builds the stateful particle App for cfg.
func NewApp(cfg *config.Config) *App {
	return NewAppBuilder().
		UseStates(StateUninitialized, StateRunning).
		UseModule(Modules(cfg)...).
		Build()
}
