package particles

import (
	"time"
)

// Time is the frame clock. Frame counts frames started, starting at 1 on the first frame.
type Time struct {
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
	Frame   uint64

	now func() time.Time
}

type TimeModule struct {
	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := mod.Now
	if now == nil {
		now = time.Now
	}
	cmd.AddResources(&Time{
		Time: now(),
		now:  now,
	})
	cmd.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

func timeSystem(t *Time) {
	now := t.now()

	t.Dt = now.Sub(t.Time)
	t.Elapsed += t.Dt
	t.Time = now
	t.Frame++
}
