package particles

import (
	"fmt"
	"slices"
)

type State int

const (
	StateUninitialized State = iota
	StateRunning
)

type Stage struct {
	Name string
}

var (
	Prelude    = Stage{Name: "Prelude"}
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	PreRender  = Stage{Name: "PreRender"}
	Render     = Stage{Name: "Render"}
	PostRender = Stage{Name: "PostRender"}
	Finale     = Stage{Name: "Finale"}
)

func defaultStages() []Stage {
	return []Stage{Prelude, PreUpdate, Update, PostUpdate, PreRender, Render, PostRender, Finale}
}

type statePhase int

const (
	enter statePhase = iota
	execute
	exit
	shutdown
)

// scheduleSlot addresses one ordered list of systems.
// Always-run systems ignore state and use the zero State.
type scheduleSlot struct {
	stage  string
	state  State
	phase  statePhase
	always bool
}

type systemScheduleBuilder struct {
	system  systemFn
	inStage Stage
	when    stateScheduleBuilder
}

type stateScheduleBuilder struct {
	state  State
	phase  statePhase
	always bool
}

func OnEnter(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: enter}
}

func OnExecute(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: execute}
}

func OnExit(state State) stateScheduleBuilder {
	return stateScheduleBuilder{state: state, phase: exit}
}

// OnShutdown runs once when the App stops, in whatever state it is in.
func OnShutdown() stateScheduleBuilder {
	return stateScheduleBuilder{phase: shutdown, always: true}
}

func Always() stateScheduleBuilder {
	return stateScheduleBuilder{phase: execute, always: true}
}

// System schedules fn in the Update stage, every frame, unless narrowed.
func System(fn systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  fn,
		inStage: Update,
		when:    Always(),
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	sched.inStage = s
	return sched
}

func (sched systemScheduleBuilder) InState(s stateScheduleBuilder) systemScheduleBuilder {
	sched.when = s
	return sched
}

func (sched systemScheduleBuilder) RunAlways() systemScheduleBuilder {
	sched.when = Always()
	return sched
}

func (sched systemScheduleBuilder) slot() scheduleSlot {
	if sched.when.always {
		return scheduleSlot{stage: sched.inStage.Name, phase: sched.when.phase, always: true}
	}
	return scheduleSlot{stage: sched.inStage.Name, state: sched.when.state, phase: sched.when.phase}
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type stagePositionBuilder struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageBefore, target: s}
}

func AfterStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageAfter, target: s}
}

func (app *App) stageIndex(name string) int {
	return slices.IndexFunc(app.stages, func(s Stage) bool { return s.Name == name })
}

func (app *App) UseStage(stage Stage, where stagePositionBuilder) *App {
	if app.stageIndex(stage.Name) != -1 {
		panic(fmt.Sprintf("Stage %v already exists", stage.Name))
	}
	idx := app.stageIndex(where.target.Name)
	if idx == -1 {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}
	if where.position == stageAfter {
		idx++
	}
	app.stages = slices.Insert(app.stages, idx, stage)
	return app
}

func (app *App) UseSystem(system systemScheduleBuilder) *App {
	if app.stageIndex(system.inStage.Name) == -1 {
		panic(fmt.Sprintf("Stage %v doesn't exist", system.inStage.Name))
	}
	if !system.when.always {
		if !app.stateful {
			panic("Trying to use a stateful system in a stateless app.")
		}
		if system.when.state < app.initialState || system.when.state > app.lastState {
			panic(fmt.Sprintf("State %v doesn't exist", system.when.state))
		}
	}

	slot := system.slot()
	app.systems[slot] = append(app.systems[slot], system.system)
	return app
}
