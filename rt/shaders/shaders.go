package shaders

import (
	_ "embed"
)

//go:embed particles_compute.wgsl
var ParticlesComputeWGSL string

//go:embed particles_sprite.wgsl
var ParticlesSpriteWGSL string

//go:embed grid.wgsl
var GridWGSL string
