package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsSnapshot(t *testing.T) {
	p := NewParams(DefaultParamValues())
	assert.Equal(t, DefaultParamValues(), p.Snapshot())

	p.SetGravity(-0.001)
	p.SetSize(0.3)
	snap := p.Snapshot()
	assert.Equal(t, float32(-0.001), snap.Gravity)
	assert.Equal(t, float32(0.3), snap.Size)
	assert.Equal(t, float32(0.8), snap.Bounce)
}

func TestParamsRawSettersDoNotClamp(t *testing.T) {
	p := NewParams(DefaultParamValues())
	p.SetFriction(1.5)
	assert.Equal(t, float32(1.5), p.Snapshot().Friction)
}

func TestParamsSetClamps(t *testing.T) {
	tests := []struct {
		label string
		in    float32
		want  float32
	}{
		{"gravity", -1, -0.0098},
		{"gravity", 0.5, 0},
		{"bounce", 0.5, 0.5},
		{"bounce", 0, 0.1},
		{"friction", 2, 0.99},
		{"size", 0.05, 0.12},
		{"size", 0.25, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			p := NewParams(DefaultParamValues())
			got, err := p.Set(tt.label, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			stored, err := p.Get(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored)
		})
	}
}

func TestParamsUnknownControl(t *testing.T) {
	p := NewParams(DefaultParamValues())
	_, err := p.Set("wind", 1)
	assert.ErrorIs(t, err, ErrUnknownControl)
	_, err = p.Get("wind")
	assert.ErrorIs(t, err, ErrUnknownControl)
	_, err = p.Nudge("wind", 1)
	assert.ErrorIs(t, err, ErrUnknownControl)
}

func TestParamsNudge(t *testing.T) {
	p := NewParams(DefaultParamValues())

	v, err := p.Nudge("gravity", 10)
	require.NoError(t, err)
	assert.InDelta(t, -0.0088, v, 1e-6)

	v, err = p.Nudge("bounce", 100)
	require.NoError(t, err)
	assert.Equal(t, float32(1), v)

	v, err = p.Nudge("friction", -1)
	require.NoError(t, err)
	assert.InDelta(t, 0.98, v, 1e-6)
}

func TestClampToControls(t *testing.T) {
	v := ClampToControls(ParamValues{Gravity: -5, Bounce: 3, Friction: 0.5, Size: 0.2})
	assert.Equal(t, ParamValues{Gravity: -0.0098, Bounce: 1, Friction: 0.96, Size: 0.2}, v)
}

func TestControlsTable(t *testing.T) {
	labels := make([]string, 0, len(Controls))
	for _, c := range Controls {
		labels = append(labels, c.Label)
		assert.Less(t, c.Min, c.Max)
		assert.Greater(t, c.Step, float32(0))
	}
	assert.Equal(t, []string{"gravity", "bounce", "friction", "size"}, labels)
}

func TestParamsConcurrentWrites(t *testing.T) {
	p := NewParams(DefaultParamValues())
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				p.SetBounce(float32(w) / 10)
				_ = p.Snapshot()
			}
		}(w)
	}
	wg.Wait()

	b := p.Snapshot().Bounce
	assert.Contains(t, []float32{0, 0.1, 0.2, 0.3}, b)
}
