package particles

import (
	"fmt"
	"image/color"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particles/rt/core"
	"github.com/gekko3d/particles/rt/cpu"
	"github.com/gekko3d/particles/rt/gpu"
)

// Backend names a core.Device implementation.
type Backend string

const (
	BackendGPU Backend = "gpu"
	BackendCPU Backend = "cpu"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendGPU, BackendCPU:
		return b, nil
	}
	return "", fmt.Errorf("unknown backend %q (want %q or %q)", s, BackendGPU, BackendCPU)
}

type DeviceOptions struct {
	ClearColor color.RGBA
	Grid       bool
}

// openDevice creates the selected device. The GPU backend needs the window
// surface; the CPU backend renders into an image sized by the Viewport.
// A failure here is final: there is no fallback between backends.
func openDevice(cmd *Commands, backend Backend, opts DeviceOptions) (core.Device, error) {
	switch backend {
	case BackendGPU:
		ws, ok := Resource[WindowState](cmd)
		if !ok || ws.window == nil {
			return nil, fmt.Errorf("%w: gpu backend needs a window", core.ErrNoComputeDevice)
		}
		d, err := gpu.NewDevice(ws.window, gpu.Options{
			ClearColor: wgpu.Color{
				R: float64(opts.ClearColor.R) / 255,
				G: float64(opts.ClearColor.G) / 255,
				B: float64(opts.ClearColor.B) / 255,
				A: float64(opts.ClearColor.A) / 255,
			},
			Grid: opts.Grid,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	case BackendCPU:
		w, h := 1, 1
		if vp, ok := Resource[Viewport](cmd); ok {
			w, h = vp.Width, vp.Height
		}
		d := cpu.NewDevice(w, h, nil)
		d.SetClearColor(opts.ClearColor)
		return d, nil
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}
