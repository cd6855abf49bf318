package core

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

var ErrUnknownControl = errors.New("unknown parameter control")

// ParamValues is one consistent reading of the parameter set.
type ParamValues struct {
	Gravity  float32
	Bounce   float32
	Friction float32
	Size     float32
}

func DefaultParamValues() ParamValues {
	return ParamValues{
		Gravity:  -0.0098,
		Bounce:   0.8,
		Friction: 0.99,
		Size:     0.12,
	}
}

// Params holds the four tunables as atomically replaceable cells.
// Writers may run on any goroutine; the frame driver reads one Snapshot per frame.
type Params struct {
	gravity  atomic.Uint32
	bounce   atomic.Uint32
	friction atomic.Uint32
	size     atomic.Uint32
}

func NewParams(v ParamValues) *Params {
	p := &Params{}
	p.Store(v)
	return p
}

func (p *Params) Snapshot() ParamValues {
	return ParamValues{
		Gravity:  loadFloat(&p.gravity),
		Bounce:   loadFloat(&p.bounce),
		Friction: loadFloat(&p.friction),
		Size:     loadFloat(&p.size),
	}
}

// Store replaces all four cells. No range checks.
func (p *Params) Store(v ParamValues) {
	p.SetGravity(v.Gravity)
	p.SetBounce(v.Bounce)
	p.SetFriction(v.Friction)
	p.SetSize(v.Size)
}

func (p *Params) SetGravity(v float32)  { storeFloat(&p.gravity, v) }
func (p *Params) SetBounce(v float32)   { storeFloat(&p.bounce, v) }
func (p *Params) SetFriction(v float32) { storeFloat(&p.friction, v) }
func (p *Params) SetSize(v float32)     { storeFloat(&p.size, v) }

// Control describes one knob of the parameter panel.
type Control struct {
	Label string
	Min   float32
	Max   float32
	Step  float32
}

func (c Control) Clamp(v float32) float32 {
	if v < c.Min {
		return c.Min
	}
	if v > c.Max {
		return c.Max
	}
	return v
}

// Controls lists the panel bindings in display order.
var Controls = []Control{
	{Label: "gravity", Min: -0.0098, Max: 0, Step: 0.0001},
	{Label: "bounce", Min: 0.1, Max: 1, Step: 0.01},
	{Label: "friction", Min: 0.96, Max: 0.99, Step: 0.01},
	{Label: "size", Min: 0.12, Max: 0.5, Step: 0.01},
}

func LookupControl(label string) (Control, error) {
	for _, c := range Controls {
		if c.Label == label {
			return c, nil
		}
	}
	return Control{}, fmt.Errorf("%w: %q", ErrUnknownControl, label)
}

// ClampToControls clamps every value to its control's advisory range.
func ClampToControls(v ParamValues) ParamValues {
	for _, c := range Controls {
		ptr := valueField(&v, c.Label)
		*ptr = c.Clamp(*ptr)
	}
	return v
}

func (p *Params) Get(label string) (float32, error) {
	cell := p.cell(label)
	if cell == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownControl, label)
	}
	return loadFloat(cell), nil
}

// Set writes a control value, clamped to the control's range, and returns what was stored.
func (p *Params) Set(label string, v float32) (float32, error) {
	c, err := LookupControl(label)
	if err != nil {
		return 0, err
	}
	v = c.Clamp(v)
	storeFloat(p.cell(label), v)
	return v, nil
}

// Nudge moves a control by a whole number of steps.
func (p *Params) Nudge(label string, steps int) (float32, error) {
	c, err := LookupControl(label)
	if err != nil {
		return 0, err
	}
	cur := loadFloat(p.cell(label))
	return p.Set(label, cur+float32(steps)*c.Step)
}

func (p *Params) cell(label string) *atomic.Uint32 {
	switch label {
	case "gravity":
		return &p.gravity
	case "bounce":
		return &p.bounce
	case "friction":
		return &p.friction
	case "size":
		return &p.size
	}
	return nil
}

func valueField(v *ParamValues, label string) *float32 {
	switch label {
	case "gravity":
		return &v.Gravity
	case "bounce":
		return &v.Bounce
	case "friction":
		return &v.Friction
	case "size":
		return &v.Size
	}
	panic("valueField: no field for control " + label)
}

func loadFloat(c *atomic.Uint32) float32     { return math.Float32frombits(c.Load()) }
func storeFloat(c *atomic.Uint32, v float32) { c.Store(math.Float32bits(v)) }
