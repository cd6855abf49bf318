package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/particles/rt/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var errNotSetup = errors.New("gpu: device used before Setup")

type Options struct {
	ClearColor wgpu.Color
	Grid       bool
}

// Device runs the particle kernels and the sprite pass on one wgpu queue.
// Compute and draw are submitted in call order, so frame n's update is
// complete before frame n's draw and frame n's draw before update n+1.
// Nothing is ever read back to the host.
type Device struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	opts Options

	particles *ParticleBuffers
	compute   *ComputePass
	sprite    *SpritePass
	grid      *GridPass
	cameraBuf *wgpu.Buffer

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
}

func NewDevice(window *glfw.Window, opts Options) (*Device, error) {
	d := &Device{opts: opts}
	d.Instance = wgpu.CreateInstance(nil)
	d.Surface = d.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	adapter, err := d.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("%w: %v", core.ErrNoComputeDevice, err)
	}
	d.Adapter = adapter

	d.Device, err = adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Particles Device"})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("%w: %v", core.ErrNoComputeDevice, err)
	}
	d.Queue = d.Device.GetQueue()

	caps := d.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		d.Release()
		return nil, fmt.Errorf("%w: surface reports no formats", core.ErrNoComputeDevice)
	}
	w, h := window.GetFramebufferSize()
	d.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(w, 1)),
		Height:      uint32(max(h, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	d.Surface.Configure(d.Adapter, d.Device, d.Config)
	return d, nil
}

func (d *Device) Name() string { return "gpu" }

func (d *Device) Setup(count int, sprite *image.RGBA) error {
	if count < 1 {
		return core.ErrEmptyPopulation
	}
	if sprite == nil {
		return errors.New("gpu: nil sprite image")
	}

	var err error
	if d.particles, err = NewParticleBuffers(d.Device, count); err != nil {
		return err
	}
	if d.compute, err = NewComputePass(d.Device); err != nil {
		return err
	}
	if err = d.compute.Bind(d.particles); err != nil {
		return err
	}
	if err = ensureBuffer(d.Device, "CameraUB", &d.cameraBuf, make([]byte, CameraUniformSize), wgpu.BufferUsageUniform); err != nil {
		return err
	}
	if d.sprite, err = NewSpritePass(d.Device, d.Config.Format); err != nil {
		return err
	}
	if err = d.sprite.Upload(sprite, d.cameraBuf); err != nil {
		return err
	}
	if d.opts.Grid {
		if d.grid, err = NewGridPass(d.Device, d.Config.Format, d.cameraBuf); err != nil {
			return err
		}
	}
	return d.setupDepth(int(d.Config.Width), int(d.Config.Height))
}

func (d *Device) Compute(job core.ComputeJob) error {
	if d.compute == nil {
		return errNotSetup
	}
	encoder, err := d.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	if err := d.compute.Encode(encoder, job, d.particles.Count); err != nil {
		return err
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmd.Release()
	d.Queue.Submit(cmd)
	return nil
}

func (d *Device) Draw(job core.DrawJob) error {
	if d.sprite == nil {
		return errNotSetup
	}
	if err := d.Queue.WriteBuffer(d.cameraBuf, 0, PackCamera(job.View, job.Projection, job.Size)); err != nil {
		return err
	}

	next, err := d.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer next.Release()
	view, err := next.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := d.Device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: d.opts.ClearColor,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	// grid first so it occludes sprites below the floor plane
	if d.grid != nil {
		d.grid.Draw(pass)
	}
	d.sprite.Draw(pass, d.particles)
	if err := pass.End(); err != nil {
		return err
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmd.Release()
	d.Queue.Submit(cmd)
	d.Surface.Present()
	return nil
}

func (d *Device) Resize(width, height int) {
	if width <= 0 || height <= 0 || d.Config == nil {
		return
	}
	d.Config.Width = uint32(width)
	d.Config.Height = uint32(height)
	d.Surface.Configure(d.Adapter, d.Device, d.Config)
	if d.sprite != nil {
		// Setup has run; a failed depth rebuild surfaces on the next Draw.
		_ = d.setupDepth(width, height)
	}
}

func (d *Device) setupDepth(width, height int) error {
	if d.depthView != nil {
		d.depthView.Release()
		d.depthView = nil
	}
	if d.depthTexture != nil {
		d.depthTexture.Release()
		d.depthTexture = nil
	}

	tex, err := d.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth",
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	d.depthTexture = tex
	d.depthView, err = tex.CreateView(nil)
	return err
}

func (d *Device) Release() {
	if d.grid != nil {
		d.grid.Release()
		d.grid = nil
	}
	if d.sprite != nil {
		d.sprite.Release()
		d.sprite = nil
	}
	if d.compute != nil {
		d.compute.Release()
		d.compute = nil
	}
	if d.particles != nil {
		d.particles.Release()
		d.particles = nil
	}
	if d.cameraBuf != nil {
		d.cameraBuf.Release()
		d.cameraBuf = nil
	}
	if d.depthView != nil {
		d.depthView.Release()
		d.depthView = nil
	}
	if d.depthTexture != nil {
		d.depthTexture.Release()
		d.depthTexture = nil
	}
	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}
	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}
	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
	if d.Instance != nil {
		d.Instance.Release()
		d.Instance = nil
	}
}
