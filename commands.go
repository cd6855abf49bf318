package particles

import "reflect"

// Commands is the handle systems and modules use to act on the App.
type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Exit asks the App to stop after the current frame.
func (cmd *Commands) Exit() {
	cmd.app.exiting = true
}

// Fail records a fatal error. The current frame stops at the next stage boundary
// and Run returns err. Only the first error is kept.
func (cmd *Commands) Fail(err error) {
	if err == nil || cmd.app.err != nil {
		return
	}
	cmd.app.Logger().Errorf("%v", err)
	cmd.app.err = err
	cmd.app.exiting = true
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}

// Resource looks up an optional resource of type T.
func Resource[T any](cmd *Commands) (*T, bool) {
	r, ok := cmd.app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}
