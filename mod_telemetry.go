package particles

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gekko3d/particles/rt/core"
	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TelemetrySample summarizes the population after one update.
type TelemetrySample struct {
	Frame         uint64  `csv:"frame"`
	Gravity       float32 `csv:"gravity"`
	Bounce        float32 `csv:"bounce"`
	Friction      float32 `csv:"friction"`
	Size          float32 `csv:"size"`
	MeanHeight    float64 `csv:"mean_height"`
	StdHeight     float64 `csv:"std_height"`
	FloorContacts int     `csv:"floor_contacts"`
	MaxSpeed      float64 `csv:"max_speed"`
}

// SampleStore computes a TelemetrySample from host-visible state.
func SampleStore(frame uint64, s *core.Store, p core.ParamValues) TelemetrySample {
	n := s.Len()
	heights := make([]float64, n)
	speeds := make([]float64, n)
	contacts := 0
	for i := 0; i < n; i++ {
		y := s.Position(i).Y()
		heights[i] = float64(y)
		speeds[i] = float64(s.Velocity(i).Len())
		if y == 0 {
			contacts++
		}
	}

	sample := TelemetrySample{
		Frame:         frame,
		Gravity:       p.Gravity,
		Bounce:        p.Bounce,
		Friction:      p.Friction,
		Size:          p.Size,
		FloorContacts: contacts,
	}
	if n > 0 {
		sample.MeanHeight, sample.StdHeight = stat.MeanStdDev(heights, nil)
		sample.MaxSpeed = floats.Max(speeds)
	}
	if n == 1 {
		// stat reports NaN for the sample deviation of a single value
		sample.StdHeight = 0
	}
	return sample
}

// Telemetry appends samples to telemetry.csv. A nil *Telemetry discards writes.
type Telemetry struct {
	Every         uint64
	file          *os.File
	headerWritten bool
	skipped       bool
}

func NewTelemetry(dir string, every int) (*Telemetry, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	if every < 1 {
		every = 1
	}
	return &Telemetry{Every: uint64(every), file: f}, nil
}

func (t *Telemetry) Write(sample TelemetrySample) error {
	if t == nil {
		return nil
	}
	records := []TelemetrySample{sample}
	if !t.headerWritten {
		if err := gocsv.Marshal(records, t.file); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		t.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, t.file); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

func (t *Telemetry) Close() error {
	if t == nil || t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}

// TelemetryModule samples host-visible devices every Every updates.
// Output problems are logged and disable telemetry; they never stop the simulation.
type TelemetryModule struct {
	Dir   string
	Every int
}

func (m TelemetryModule) Install(app *App, cmd *Commands) {
	tel, err := NewTelemetry(m.Dir, m.Every)
	if err != nil {
		cmd.Logger().Warnf("telemetry disabled: %v", err)
		return
	}
	if tel == nil {
		return
	}
	cmd.AddResources(tel)
	cmd.UseSystem(
		System(telemetrySystem).
			InStage(PostRender).
			InState(OnExecute(StateRunning)),
	)
	cmd.UseSystem(
		System(telemetryCloseSystem).
			InStage(Finale).
			InState(OnShutdown()),
	)
}

func telemetrySystem(cmd *Commands, tel *Telemetry, sim *Simulation) {
	if tel.file == nil || sim.Updates%tel.Every != 0 {
		return
	}
	hv, ok := sim.Device.(core.HostVisible)
	if !ok {
		if !tel.skipped {
			tel.skipped = true
			cmd.Logger().Infof("telemetry: %s device state is not host visible, skipping", sim.Device.Name())
		}
		return
	}
	if err := tel.Write(SampleStore(sim.Updates, hv.Store(), sim.Params)); err != nil {
		cmd.Logger().Warnf("telemetry disabled: %v", err)
		tel.Close()
	}
}

func telemetryCloseSystem(cmd *Commands, tel *Telemetry) {
	if err := tel.Close(); err != nil {
		cmd.Logger().Warnf("closing telemetry: %v", err)
	}
}
