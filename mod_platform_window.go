package particles

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	window *glfw.Window
	Title  string

	// written from GLFW callbacks during PollEvents
	fbWidth, fbHeight int
	scrollY           float64
}

// Window exposes the GLFW handle for surface creation.
func (s *WindowState) Window() *glfw.Window { return s.window }

// PlatformWindowModule creates the single GLFW window, a Viewport that
// follows its framebuffer, and polls events each frame. Closing the window exits the App.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

func NewPlatformWindow(width, height int, title string) PlatformWindowModule {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "Particles"
	}
	return PlatformWindowModule{Width: width, Height: height, Title: title}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	ws := createWindowState(m.Width, m.Height, m.Title)
	w, h := ws.window.GetFramebufferSize()
	ws.fbWidth, ws.fbHeight = w, h

	ws.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		ws.fbWidth, ws.fbHeight = width, height
	})
	ws.window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		ws.scrollY += yoff
	})

	cmd.AddResources(ws, NewViewport(w, h))
	cmd.Logger().Infof("created window %dx%d '%s'", m.Width, m.Height, m.Title)

	cmd.UseSystem(
		System(windowEventsSystem).
			InStage(Prelude).
			RunAlways(),
	)
	cmd.UseSystem(
		System(windowTeardownSystem).
			InStage(Finale).
			InState(OnShutdown()),
	)
}

func createWindowState(width, height int, title string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // wgpu owns the surface
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		panic(err)
	}
	return &WindowState{window: win, Title: title}
}

func windowEventsSystem(cmd *Commands, s *WindowState, vp *Viewport) {
	glfw.PollEvents()

	if vp.Width != s.fbWidth || vp.Height != s.fbHeight {
		vp.Set(s.fbWidth, s.fbHeight)
		if vp.Changed {
			cmd.Logger().Infof("surface resized to %dx%d", vp.Width, vp.Height)
		}
	}
	if s.window.ShouldClose() {
		cmd.Logger().Infof("window closed")
		cmd.Exit()
	}
}

func windowTeardownSystem(s *WindowState) {
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	glfw.Terminate()
}
