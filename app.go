package particles

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module wires resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stateful           bool
	stateTransitioning bool
	initialState       State
	lastState          State
	nextState          State
	state              State
	stages             []Stage
	systems            map[scheduleSlot][]systemFn
	resources          map[reflect.Type]any

	started bool
	exiting bool
	stopped bool
	err     error
	frame   uint64
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// State reports the current state. Stateless apps always report zero.
func (app *App) State() State {
	return app.state
}

// Frame is the number of completed Step calls.
func (app *App) Frame() uint64 {
	return app.frame
}

// Err returns the fatal error recorded by Commands.Fail, if any.
func (app *App) Err() error {
	return app.err
}

// Step runs exactly one frame: every stage in order, then any pending state change.
// The first call enters the initial state.
func (app *App) Step() error {
	if app.stopped {
		return app.err
	}
	if !app.started {
		app.started = true
		if app.stateful {
			app.state = app.initialState
			app.Logger().Debugf("entering state %d", app.state)
			app.callSystems(app.state, enter)
		}
	}
	if app.err != nil {
		return app.err
	}

	app.callSystems(app.state, execute)
	if app.err != nil {
		return app.err
	}

	if app.stateful && app.stateTransitioning {
		app.stateTransitioning = false
		app.executeChangeState(app.nextState)
	}
	app.frame++
	return app.err
}

// Run steps until Commands.Exit or Commands.Fail, then runs shutdown systems.
// It returns the fatal error, or nil after a clean exit.
func (app *App) Run() error {
	if app.stateful {
		app.Logger().Infof("running in stateful mode...")
	} else {
		app.Logger().Infof("running in stateless mode...")
	}

	for !app.exiting {
		if err := app.Step(); err != nil {
			break
		}
	}
	app.Shutdown()
	return app.err
}

// Shutdown runs OnShutdown systems once. Further Steps are no-ops.
func (app *App) Shutdown() {
	if app.stopped {
		return
	}
	app.stopped = true
	app.callSystems(app.state, shutdown)
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		// always-run systems first
		for _, system := range app.systems[scheduleSlot{stage: stage.Name, phase: phase, always: true}] {
			app.callSystem(system)
		}

		if app.stateful {
			for _, system := range app.systems[scheduleSlot{stage: stage.Name, state: state, phase: phase}] {
				app.callSystem(system)
			}
		}

		// a fatal error stops the frame at the stage boundary, except during shutdown
		if app.err != nil && phase != shutdown {
			return
		}
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	app.Logger().Debugf("state %d -> %d", app.state, newState)
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) hasResource(t reflect.Type) bool {
	_, ok := app.resources[t]
	return ok
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("system %s: argument %s must be a pointer", funcName(systemValue), argType))
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			panic(fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				funcName(systemValue),
				systemType,
				argType,
			))
		}
	}
	systemValue.Call(args)
}

func funcName(v reflect.Value) string {
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		return fn.Name()
	}
	return "<unknown>"
}
