package particles

// Viewport is the render surface size in pixels. Whoever owns the surface
// (window or headless target) updates it; Changed is cleared once consumed.
type Viewport struct {
	Width   int
	Height  int
	Changed bool
}

func NewViewport(width, height int) *Viewport {
	return &Viewport{Width: width, Height: height, Changed: true}
}

// Set records a new size. Non-positive sizes (minimized window) are ignored.
func (v *Viewport) Set(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == v.Width && height == v.Height {
		return
	}
	v.Width, v.Height = width, height
	v.Changed = true
}
