package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// polarEpsilon keeps the orbit off the poles where LookAt degenerates.
const polarEpsilon = 1e-6

// OrbitCamera orbits a target on a sphere. Y is up.
type OrbitCamera struct {
	Target      mgl32.Vec3
	Radius      float32
	Azimuth     float32 // around +Y, 0 looks down -Z from +Z
	Polar       float32 // from +Y
	FovDegrees  float32
	Aspect      float32
	Near        float32
	Far         float32
	MinDistance float32
	MaxDistance float32
}

func NewOrbitCamera(position, target mgl32.Vec3) *OrbitCamera {
	c := &OrbitCamera{
		Target:      target,
		FovDegrees:  50,
		Aspect:      1,
		Near:        0.1,
		Far:         1000,
		MinDistance: 5,
		MaxDistance: 200,
	}
	c.SetPosition(position)
	return c
}

// SetPosition places the eye, converting to spherical coordinates around Target.
func (c *OrbitCamera) SetPosition(p mgl32.Vec3) {
	off := p.Sub(c.Target)
	c.Radius = off.Len()
	if c.Radius == 0 {
		c.Radius = c.MinDistance
		c.Azimuth, c.Polar = 0, float32(math.Pi/2)
		return
	}
	c.Azimuth = float32(math.Atan2(float64(off[0]), float64(off[2])))
	c.Polar = float32(math.Acos(float64(mgl32.Clamp(off[1]/c.Radius, -1, 1))))
	c.clamp()
}

func (c *OrbitCamera) Position() mgl32.Vec3 {
	sinP := float32(math.Sin(float64(c.Polar)))
	return c.Target.Add(mgl32.Vec3{
		c.Radius * sinP * float32(math.Sin(float64(c.Azimuth))),
		c.Radius * float32(math.Cos(float64(c.Polar))),
		c.Radius * sinP * float32(math.Cos(float64(c.Azimuth))),
	})
}

// Orbit rotates by the given angles in radians.
func (c *OrbitCamera) Orbit(dAzimuth, dPolar float32) {
	c.Azimuth += dAzimuth
	c.Polar += dPolar
	c.clamp()
}

// Zoom scales the distance; scale < 1 moves closer.
func (c *OrbitCamera) Zoom(scale float32) {
	if scale <= 0 {
		return
	}
	c.Radius *= scale
	c.clamp()
}

func (c *OrbitCamera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *OrbitCamera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *OrbitCamera) GetProjectionMatrix() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect == 0 {
		aspect = 1.0
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovDegrees), aspect, c.Near, c.Far)
}

func (c *OrbitCamera) clamp() {
	if c.MinDistance > 0 && c.Radius < c.MinDistance {
		c.Radius = c.MinDistance
	}
	if c.MaxDistance > 0 && c.Radius > c.MaxDistance {
		c.Radius = c.MaxDistance
	}
	c.Polar = mgl32.Clamp(c.Polar, polarEpsilon, float32(math.Pi)-polarEpsilon)
}
