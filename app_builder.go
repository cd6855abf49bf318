package particles

import (
	"reflect"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: &App{
		resources: make(map[reflect.Type]any),
		systems:   make(map[scheduleSlot][]systemFn),
		stages:    defaultStages(),
	}}
}

// UseStates makes the App stateful over the inclusive range [initialState, lastState].
func (b *AppBuilder) UseStates(initialState State, lastState State) *AppBuilder {
	b.app.stateful = true
	b.app.initialState = initialState
	b.app.lastState = lastState
	b.app.state = initialState

	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build installs modules in the order they were added.
func (b *AppBuilder) Build() *App {
	app := b.app
	commands := &Commands{app: app}

	for _, module := range b.modules {
		module.Install(app, commands)
	}

	return app
}
