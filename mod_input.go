package particles

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	Key1 int = iota
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	KeyR
	KeyEscape
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
	inputCount
)

type InputModule struct{}

type Input struct {
	Pressed      [inputCount]bool
	JustPressed  [inputCount]bool
	JustReleased [inputCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	ScrollY                  float64

	seenCursor bool
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	cmd.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

// set advances one key or button to its polled state.
func (input *Input) set(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

func (input *Input) moveCursor(x, y float64) {
	if input.seenCursor {
		input.MouseDeltaX = x - input.MouseX
		input.MouseDeltaY = y - input.MouseY
	}
	input.seenCursor = true
	input.MouseX, input.MouseY = x, y
}

// inputSystem runs after windowEventsSystem has polled GLFW.
func inputSystem(s *WindowState, input *Input) {
	for key, glfwKey := range keyToGlfw {
		input.set(key, s.window.GetKey(glfwKey) == glfw.Press)
	}
	for btn, glfwBtn := range buttonToGlfw {
		input.set(btn, s.window.GetMouseButton(glfwBtn) == glfw.Press)
	}

	input.moveCursor(s.window.GetCursorPos())

	input.ScrollY = s.scrollY
	s.scrollY = 0

	if input.JustPressed[KeyEscape] {
		s.window.SetShouldClose(true)
	}
}

var keyToGlfw = map[int]glfw.Key{
	Key1:      glfw.Key1,
	Key2:      glfw.Key2,
	Key3:      glfw.Key3,
	Key4:      glfw.Key4,
	Key5:      glfw.Key5,
	Key6:      glfw.Key6,
	Key7:      glfw.Key7,
	Key8:      glfw.Key8,
	KeyR:      glfw.KeyR,
	KeyEscape: glfw.KeyEscape,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:   glfw.MouseButtonLeft,
	MouseButtonRight:  glfw.MouseButtonRight,
	MouseButtonMiddle: glfw.MouseButtonMiddle,
}
