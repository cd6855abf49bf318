package particles

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// HeadlessModule replaces the window: a fixed Viewport, an optional PNG per
// frame, and Exit after Frames updates.
type HeadlessModule struct {
	Frames int
	Dir    string
	Width  int
	Height int
}

type headlessCapture struct {
	frames  uint64
	dir     string
	written int
}

// FrameSource is implemented by devices that render into host memory.
type FrameSource interface {
	Frame() *image.RGBA
}

func (m HeadlessModule) Install(app *App, cmd *Commands) {
	w, h := m.Width, m.Height
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}
	if m.Dir != "" {
		if err := os.MkdirAll(m.Dir, 0755); err != nil {
			cmd.Logger().Warnf("headless: frame output disabled: %v", err)
			m.Dir = ""
		}
	}
	cmd.AddResources(NewViewport(w, h), &headlessCapture{frames: uint64(max(m.Frames, 0)), dir: m.Dir})
	cmd.UseSystem(
		System(headlessCaptureSystem).
			InStage(PostRender).
			InState(OnExecute(StateRunning)),
	)
}

func headlessCaptureSystem(cmd *Commands, hc *headlessCapture, sim *Simulation) {
	if hc.dir != "" {
		if src, ok := sim.Device.(FrameSource); ok {
			path := filepath.Join(hc.dir, fmt.Sprintf("frame_%05d.png", sim.Updates))
			if err := writePNG(path, src.Frame()); err != nil {
				cmd.Logger().Warnf("headless: %v", err)
			} else {
				hc.written++
			}
		}
	}
	if sim.Updates >= hc.frames {
		cmd.Logger().Infof("headless run complete: %d frames, %d images", sim.Updates, hc.written)
		cmd.Exit()
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
