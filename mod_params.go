package particles

import (
	"github.com/gekko3d/particles/rt/core"
)

// ParamsModule provides the shared core.Params resource. With Keys set,
// number keys nudge the knobs: 1/2 gravity, 3/4 bounce, 5/6 friction, 7/8 size.
type ParamsModule struct {
	Initial core.ParamValues
	Keys    bool
}

type keyBinding struct {
	key   int
	label string
	steps int
}

var paramKeyBindings = []keyBinding{
	{Key1, "gravity", -1},
	{Key2, "gravity", 1},
	{Key3, "bounce", -1},
	{Key4, "bounce", 1},
	{Key5, "friction", -1},
	{Key6, "friction", 1},
	{Key7, "size", -1},
	{Key8, "size", 1},
}

func (m ParamsModule) Install(app *App, cmd *Commands) {
	initial := core.ClampToControls(m.Initial)
	if initial != m.Initial {
		cmd.Logger().Warnf("initial params %+v clamped to %+v", m.Initial, initial)
	}
	cmd.AddResources(core.NewParams(initial))

	if m.Keys {
		cmd.UseSystem(
			System(paramsPanelSystem).
				InStage(PreUpdate).
				RunAlways(),
		)
	}
}

func paramsPanelSystem(cmd *Commands, input *Input, params *core.Params) {
	for _, b := range paramKeyBindings {
		if !input.JustPressed[b.key] {
			continue
		}
		v, err := params.Nudge(b.label, b.steps)
		if err != nil {
			cmd.Logger().Warnf("params: %v", err)
			continue
		}
		cmd.Logger().Infof("%s = %g", b.label, v)
	}
}
