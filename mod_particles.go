package particles

import (
	"fmt"
	"image"
	"reflect"

	"github.com/gekko3d/particles/rt/core"
)

// ParticlesModule drives the simulation:
//
//	Uninitialized: open device, upload sprite, run the init kernel once, then -> Running
//	Running:       Update stage runs the update kernel, Render stage draws
//
// Every Running frame is Update(n) then Render(n); the device queue keeps
// Render(n) ahead of Update(n+1).
type ParticlesModule struct {
	Count        int
	RandomHeight bool

	Backend Backend
	Device  DeviceOptions

	// SpritePath is a PNG; empty selects a procedural disc of SpriteSize pixels.
	SpritePath string
	SpriteSize int

	// OpenDevice replaces backend selection.
	OpenDevice func(cmd *Commands) (core.Device, error)
}

// Simulation is the running state shared by the particle systems.
type Simulation struct {
	Count   int
	Init    core.InitOptions
	Backend Backend
	Device  core.Device
	Sprite  AssetId

	// Updates counts completed update dispatches.
	Updates uint64
	// Params is the snapshot the current frame runs with.
	Params core.ParamValues

	spritePath string
	spriteSize int
	open       func(cmd *Commands) (core.Device, error)
}

func (m ParticlesModule) Install(app *App, cmd *Commands) {
	backend := m.Backend
	if backend == "" {
		backend = BackendGPU
	}
	ensureSingleRenderer(app, backend)

	sim := &Simulation{
		Count:      m.Count,
		Init:       core.InitOptions{RandomHeight: m.RandomHeight},
		Backend:    backend,
		spritePath: m.SpritePath,
		spriteSize: m.SpriteSize,
		open:       m.OpenDevice,
	}
	if sim.spriteSize <= 0 {
		sim.spriteSize = 64
	}
	if sim.open == nil {
		opts := m.Device
		sim.open = func(cmd *Commands) (core.Device, error) {
			return openDevice(cmd, backend, opts)
		}
	}
	cmd.AddResources(sim)

	if !app.hasResource(reflect.TypeFor[AssetServer]()) {
		cmd.AddResources(NewAssetServer())
	}
	if !app.hasResource(reflect.TypeFor[Viewport]()) {
		cmd.AddResources(NewViewport(1, 1))
	}

	cmd.UseSystem(
		System(particlesSetupSystem).
			InStage(Update).
			InState(OnExecute(StateUninitialized)),
	)
	cmd.UseSystem(
		System(particlesUpdateSystem).
			InStage(Update).
			InState(OnExecute(StateRunning)),
	)
	cmd.UseSystem(
		System(particlesResizeSystem).
			InStage(PreRender).
			RunAlways(),
	)
	cmd.UseSystem(
		System(particlesDrawSystem).
			InStage(Render).
			InState(OnExecute(StateRunning)),
	)
	cmd.UseSystem(
		System(particlesTeardownSystem).
			InStage(Render).
			InState(OnShutdown()),
	)
}

func (sim *Simulation) loadSprite(assets *AssetServer) (*image.RGBA, error) {
	if sim.spritePath == "" {
		sim.Sprite = assets.CreateTexture(NewSoftDiscSprite(sim.spriteSize))
	} else {
		id, err := assets.LoadTexture(sim.spritePath)
		if err != nil {
			return nil, err
		}
		sim.Sprite = id
	}
	img, _ := assets.Texture(sim.Sprite)
	return img, nil
}

func particlesSetupSystem(cmd *Commands, sim *Simulation, assets *AssetServer, params *core.Params) {
	sprite, err := sim.loadSprite(assets)
	if err != nil {
		cmd.Fail(fmt.Errorf("load sprite: %w", err))
		return
	}

	dev, err := sim.open(cmd)
	if err != nil {
		cmd.Fail(fmt.Errorf("open %s device: %w", sim.Backend, err))
		return
	}
	sim.Device = dev

	if err := dev.Setup(sim.Count, sprite); err != nil {
		cmd.Fail(fmt.Errorf("setup %s device: %w", dev.Name(), err))
		return
	}
	sim.Params = params.Snapshot()
	if err := dev.Compute(core.ComputeJob{Kernel: core.KernelInit, Params: sim.Params, Init: sim.Init}); err != nil {
		cmd.Fail(fmt.Errorf("init particles: %w", err))
		return
	}

	cmd.Logger().Infof("%s device ready, %d particles", dev.Name(), sim.Count)
	cmd.ChangeState(StateRunning)
}

func particlesUpdateSystem(cmd *Commands, sim *Simulation, params *core.Params) {
	sim.Params = params.Snapshot()
	job := core.ComputeJob{Kernel: core.KernelUpdate, Params: sim.Params}
	if err := sim.Device.Compute(job); err != nil {
		cmd.Fail(fmt.Errorf("update %d: %w", sim.Updates+1, err))
		return
	}
	sim.Updates++
}

func particlesResizeSystem(cmd *Commands, sim *Simulation, vp *Viewport, cam *core.OrbitCamera) {
	if !vp.Changed {
		return
	}
	vp.Changed = false
	cam.SetAspect(vp.Width, vp.Height)
	if sim.Device != nil {
		sim.Device.Resize(vp.Width, vp.Height)
	}
	cmd.Logger().Debugf("viewport %dx%d", vp.Width, vp.Height)
}

// Draw failures (lost or outdated surface) skip the frame.
func particlesDrawSystem(cmd *Commands, sim *Simulation, cam *core.OrbitCamera) {
	job := core.DrawJob{
		View:       cam.GetViewMatrix(),
		Projection: cam.GetProjectionMatrix(),
		Size:       sim.Params.Size,
	}
	if err := sim.Device.Draw(job); err != nil {
		cmd.Logger().Warnf("draw %d: %v", sim.Updates, err)
	}
}

func particlesTeardownSystem(cmd *Commands, sim *Simulation) {
	if sim.Device == nil {
		return
	}
	cmd.Logger().Infof("releasing %s device after %d updates", sim.Device.Name(), sim.Updates)
	sim.Device.Release()
	sim.Device = nil
}
