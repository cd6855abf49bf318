package cpu

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gekko3d/particles/rt/core"
)

var errNotSetup = errors.New("cpu device: Setup not called")

// Device runs the particle kernels on host goroutines and rasterizes in software.
type Device struct {
	lanes     Scheduler
	ownsLanes bool
	store     *core.Store
	canvas    *Canvas
	lastDrawn int
}

// NewDevice creates a device rendering into a width x height canvas.
// A nil scheduler starts a worker pool owned (and closed) by the device.
func NewDevice(width, height int, lanes Scheduler) *Device {
	d := &Device{
		lanes:  lanes,
		canvas: NewCanvas(width, height),
	}
	if d.lanes == nil {
		d.lanes = NewPool(0)
		d.ownsLanes = true
	}
	return d
}

func (d *Device) Name() string { return "cpu" }

func (d *Device) SetClearColor(c color.RGBA) { d.canvas.Clear = c }

func (d *Device) Setup(count int, sprite *image.RGBA) error {
	store, err := core.NewStore(count)
	if err != nil {
		return fmt.Errorf("cpu device: %w", err)
	}
	d.store = store
	d.canvas.SetSprite(sprite)
	return nil
}

func (d *Device) Compute(job core.ComputeJob) error {
	if d.store == nil {
		return errNotSetup
	}
	s := d.store
	switch job.Kernel {
	case core.KernelInit:
		opt := job.Init
		d.lanes.Dispatch(s.Len(), func(i int) { core.InitLane(s, i, opt) })
	case core.KernelUpdate:
		p := job.Params
		d.lanes.Dispatch(s.Len(), func(i int) { core.UpdateLane(s, i, p) })
	default:
		return fmt.Errorf("cpu device: unknown kernel %v", job.Kernel)
	}
	return nil
}

func (d *Device) Draw(job core.DrawJob) error {
	if d.store == nil {
		return errNotSetup
	}
	d.lastDrawn = d.canvas.Render(d.store, job)
	return nil
}

func (d *Device) Resize(width, height int) { d.canvas.Resize(width, height) }

func (d *Device) Release() {
	if p, ok := d.lanes.(*Pool); ok && d.ownsLanes {
		p.Close()
	}
}

func (d *Device) Store() *core.Store { return d.store }

// Frame returns the most recently rendered image.
func (d *Device) Frame() *image.RGBA { return d.canvas.Image() }

// Drawn is the number of sprites that passed the depth test in the last Draw.
func (d *Device) Drawn() int { return d.lastDrawn }
