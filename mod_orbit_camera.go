package particles

import (
	"math"

	"github.com/gekko3d/particles/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCameraModule provides the core.OrbitCamera resource. With Interactive set,
// left-drag orbits around the target and the scroll wheel zooms.
type OrbitCameraModule struct {
	Position    mgl32.Vec3
	Target      mgl32.Vec3
	FovDegrees  float32
	Near, Far   float32
	MinDistance float32
	MaxDistance float32

	Interactive bool
	// radians per pixel of drag
	RotateSpeed float32
	// zoom factor per scroll notch
	ZoomStep float32
}

func (m OrbitCameraModule) Install(app *App, cmd *Commands) {
	cam := core.NewOrbitCamera(m.Position, m.Target)
	if m.FovDegrees > 0 {
		cam.FovDegrees = m.FovDegrees
	}
	if m.Near > 0 {
		cam.Near = m.Near
	}
	if m.Far > 0 {
		cam.Far = m.Far
	}
	if m.MinDistance > 0 {
		cam.MinDistance = m.MinDistance
	}
	if m.MaxDistance > 0 {
		cam.MaxDistance = m.MaxDistance
	}
	cam.SetPosition(m.Position)
	cmd.AddResources(cam)

	if !m.Interactive {
		return
	}
	ctl := &orbitControls{rotate: m.RotateSpeed, zoom: m.ZoomStep}
	if ctl.rotate == 0 {
		ctl.rotate = 0.005
	}
	if ctl.zoom == 0 {
		ctl.zoom = 0.95
	}
	cmd.AddResources(ctl)
	cmd.UseSystem(
		System(orbitCameraSystem).
			InStage(Update).
			RunAlways(),
	)
}

type orbitControls struct {
	rotate float32
	zoom   float32
}

func orbitCameraSystem(input *Input, ctl *orbitControls, cam *core.OrbitCamera) {
	if input.Pressed[MouseButtonLeft] && !input.JustPressed[MouseButtonLeft] {
		cam.Orbit(-float32(input.MouseDeltaX)*ctl.rotate, -float32(input.MouseDeltaY)*ctl.rotate)
	}
	if input.ScrollY != 0 {
		cam.Zoom(float32(math.Pow(float64(ctl.zoom), input.ScrollY)))
	}
}
