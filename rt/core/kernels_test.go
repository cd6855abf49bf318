package core

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, n int) *Store {
	t.Helper()
	s, err := NewStore(n)
	require.NoError(t, err)
	return s
}

func TestHashRange(t *testing.T) {
	for i := uint32(0); i < 100000; i++ {
		h := Hash(i)
		if h < 0 || h > 1 {
			t.Fatalf("Hash(%d) = %f out of [0,1]", i, h)
		}
	}
}

func TestHashKnownValues(t *testing.T) {
	// PCG: state = seed*747796405 + 2891336453 (mod 2^32)
	state := uint32(2891336453)
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	want := float32((word>>22)^word) / 4294967296.0

	assert.Equal(t, want, Hash(0))
	assert.NotEqual(t, Hash(0), Hash(1))
	assert.Equal(t, Hash(42), Hash(42))
}

func TestInitLaneCoverage(t *testing.T) {
	const n = 10000
	s := newTestStore(t, n)
	for i := 0; i < n; i++ {
		InitLane(s, i, InitOptions{})
	}

	require.True(t, s.lengthsAgree())
	require.Equal(t, n, s.Len())
	for i := 0; i < n; i++ {
		p := s.Position(i)
		if p.X() < -5 || p.X() > 5 || p.Z() < -5 || p.Z() > 5 {
			t.Fatalf("particle %d outside the 10x10 square: %v", i, p)
		}
		if p.Y() != 0 {
			t.Fatalf("particle %d not on the floor: y=%f", i, p.Y())
		}
		if s.Color(i) != (mgl32.Vec3{1, 1, 1}) {
			t.Fatalf("particle %d not white: %v", i, s.Color(i))
		}
	}
}

func TestInitLaneUsesIndexHashes(t *testing.T) {
	s := newTestStore(t, 8)
	InitLane(s, 7, InitOptions{})

	p := s.Position(7)
	assert.InDelta(t, Hash(7)*10-5, p.X(), 1e-6)
	assert.InDelta(t, Hash(10)*10-5, p.Z(), 1e-6)
	assert.Equal(t, mgl32.Vec3{}, s.Velocity(7))
}

func TestInitLaneRandomHeight(t *testing.T) {
	s := newTestStore(t, 256)
	for i := 0; i < s.Len(); i++ {
		InitLane(s, i, InitOptions{RandomHeight: true})
	}
	above := 0
	for i := 0; i < s.Len(); i++ {
		y := s.Position(i).Y()
		require.GreaterOrEqual(t, y, float32(0))
		require.LessOrEqual(t, y, float32(10))
		assert.Equal(t, Hash(uint32(i)+2)*10, y)
		if y > 0 {
			above++
		}
	}
	assert.Greater(t, above, 0)
}

func TestUpdateLaneFloorBoundary(t *testing.T) {
	s := newTestStore(t, 1)
	s.Seed(0, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 0})

	UpdateLane(s, 0, DefaultParamValues())

	assert.Equal(t, float32(0), s.Position(0).Y(), "clamped to the floor")
	// gravity, then drag, then reflection: 0.0098 * 0.99 * 0.8
	assert.InDelta(t, 0.0077616, s.Velocity(0).Y(), 1e-7)
	assert.Greater(t, s.Velocity(0).Y(), float32(0), "lifts off the next frame")
}

func TestUpdateLaneAboveFloor(t *testing.T) {
	s := newTestStore(t, 1)
	s.Seed(0, mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 0, 0})

	UpdateLane(s, 0, DefaultParamValues())

	assert.InDelta(t, 4.9902, s.Position(0).Y(), 1e-6)
	assert.InDelta(t, -0.009702, s.Velocity(0).Y(), 1e-7)
}

func TestUpdateLaneFloorFriction(t *testing.T) {
	p := ParamValues{Gravity: -1, Bounce: 0.5, Friction: 1}
	s := newTestStore(t, 1)
	s.Seed(0, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{2, 0, -4})

	UpdateLane(s, 0, p)

	assert.Equal(t, mgl32.Vec3{2, 0, -4}, s.Position(0))
	assert.Equal(t, mgl32.Vec3{2 * FloorFriction, 0.5, -4 * FloorFriction}, s.Velocity(0))
}

func TestUpdateLaneTouchesOnlyItsIndex(t *testing.T) {
	s := newTestStore(t, 3)
	for i := 0; i < 3; i++ {
		s.Seed(i, mgl32.Vec3{float32(i), 3, 0}, mgl32.Vec3{0.1, 0, 0})
	}
	before := s.Clone()

	UpdateLane(s, 1, DefaultParamValues())

	for _, i := range []int{0, 2} {
		assert.Equal(t, before.Position(i), s.Position(i))
		assert.Equal(t, before.Velocity(i), s.Velocity(i))
	}
	assert.NotEqual(t, before.Position(1), s.Position(1))
}

func TestUpdateLaneOrderIndependent(t *testing.T) {
	const n = 512
	base := newTestStore(t, n)
	for i := 0; i < n; i++ {
		InitLane(base, i, InitOptions{RandomHeight: true})
		base.Seed(i, base.Position(i), mgl32.Vec3{Hash(uint32(i)) - 0.5, 0, 0.1})
	}

	inOrder := base.Clone()
	scrambled := base.Clone()
	order := rand.New(rand.NewSource(7)).Perm(n)

	for frame := 0; frame < 30; frame++ {
		for i := 0; i < n; i++ {
			UpdateLane(inOrder, i, DefaultParamValues())
		}
		for _, i := range order {
			UpdateLane(scrambled, i, DefaultParamValues())
		}
	}

	assert.True(t, inOrder.Equal(scrambled))
}

func TestUpdateLaneDeterministic(t *testing.T) {
	a := newTestStore(t, 64)
	for i := 0; i < a.Len(); i++ {
		a.Seed(i, mgl32.Vec3{0, float32(i) * 0.1, 0}, mgl32.Vec3{0.01, 0, -0.02})
	}
	b := a.Clone()
	p := ParamValues{Gravity: -0.005, Bounce: 0.6, Friction: 0.97}

	for i := 0; i < a.Len(); i++ {
		UpdateLane(a, i, p)
		UpdateLane(b, i, p)
	}
	assert.True(t, a.Equal(b))
}

func TestDropScenario(t *testing.T) {
	tests := []struct {
		name       string
		params     ParamValues
		frames     int
		firstTouch int
	}{
		{
			name:       "no drag touches on frame 45",
			params:     ParamValues{Gravity: -0.0098, Bounce: 0.8, Friction: 1},
			frames:     45,
			firstTouch: 45,
		},
		{
			name:       "default drag touches on frame 49",
			params:     DefaultParamValues(),
			frames:     60,
			firstTouch: 49,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, 4)
			for i := 0; i < 4; i++ {
				s.Seed(i, mgl32.Vec3{0, 10, 0}, mgl32.Vec3{})
			}

			touched := 0
			for frame := 1; frame <= tt.frames; frame++ {
				for i := 0; i < s.Len(); i++ {
					UpdateLane(s, i, tt.params)
				}
				require.True(t, s.lengthsAgree())
				for i := 0; i < s.Len(); i++ {
					y := s.Position(i).Y()
					require.GreaterOrEqualf(t, y, float32(0), "frame %d particle %d below floor", frame, i)
					if y == 0 && touched == 0 {
						touched = frame
					}
				}
			}
			assert.Equal(t, tt.firstTouch, touched)
		})
	}
}
