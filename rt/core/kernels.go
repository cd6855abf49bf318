package core

import "github.com/go-gl/mathgl/mgl32"

// FloorFriction damps horizontal velocity on floor contact.
const FloorFriction float32 = 0.9

// Hash maps a seed to [0, 1) with the PCG permutation used by the WGSL kernels.
// Keep in sync with hash() in particles_compute.wgsl.
func Hash(seed uint32) float32 {
	state := seed*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return float32((word>>22)^word) * (1.0 / 4294967296.0)
}

type InitOptions struct {
	// RandomHeight scatters particles over y in [0, 10) instead of placing them on the floor.
	RandomHeight bool
}

// InitLane seeds particle i. It depends only on i.
func InitLane(s *Store, i int, opt InitOptions) {
	idx := uint32(i)

	var y float32
	if opt.RandomHeight {
		y = Hash(idx+2) * 10
	}
	s.pos[i] = mgl32.Vec3{
		Hash(idx)*10 - 5,
		y,
		Hash(idx+3)*10 - 5,
	}
	s.color[i] = mgl32.Vec3{1, 1, 1}
}

// UpdateLane advances particle i by one frame. Only index i is read or written.
func UpdateLane(s *Store, i int, p ParamValues) {
	pos := s.pos[i]
	vel := s.vel[i]

	vel[1] += p.Gravity
	pos = pos.Add(vel)
	vel = vel.Mul(p.Friction)

	// floor
	if pos[1] < 0 {
		pos[1] = 0
		vel[1] = -vel[1] * p.Bounce
		vel[0] *= FloorFriction
		vel[2] *= FloorFriction
	}

	s.pos[i] = pos
	s.vel[i] = vel
}
