package core

import (
	"errors"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoComputeDevice = errors.New("no compute-capable graphics device available")

type Kernel int

const (
	KernelInit Kernel = iota
	KernelUpdate
)

func (k Kernel) String() string {
	switch k {
	case KernelInit:
		return "init"
	case KernelUpdate:
		return "update"
	}
	return "unknown"
}

// ComputeJob runs one kernel over every particle.
type ComputeJob struct {
	Kernel Kernel
	Params ParamValues // read by KernelUpdate
	Init   InitOptions // read by KernelInit
}

// DrawJob renders the population as billboards of world size Size.
// Projection uses the OpenGL clip convention produced by mgl32.Perspective.
type DrawJob struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Size       float32
}

// Device runs typed compute and draw jobs against the particle state it owns.
// Jobs complete, or are queued in order, before the call returns: a Draw always
// observes the state left by the preceding Compute.
type Device interface {
	Name() string
	Setup(count int, sprite *image.RGBA) error
	Compute(job ComputeJob) error
	Draw(job DrawJob) error
	Resize(width, height int)
	Release()
}

// HostVisible is implemented by devices whose particle state lives in host memory.
type HostVisible interface {
	Store() *Store
}
