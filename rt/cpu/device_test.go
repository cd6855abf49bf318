package cpu

import (
	"math/rand"
	"testing"

	"github.com/gekko3d/particles/rt/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shuffledLanes runs lanes in a fixed random permutation of the index range.
type shuffledLanes struct {
	rng *rand.Rand
}

func (s shuffledLanes) Dispatch(n int, lane func(i int)) {
	for _, i := range s.rng.Perm(n) {
		lane(i)
	}
}

func newInitializedDevice(t *testing.T, n int, lanes Scheduler) *Device {
	t.Helper()
	d := NewDevice(64, 64, lanes)
	t.Cleanup(d.Release)
	require.NoError(t, d.Setup(n, nil))
	require.NoError(t, d.Compute(core.ComputeJob{Kernel: core.KernelInit}))
	return d
}

func TestDeviceRequiresSetup(t *testing.T) {
	d := NewDevice(8, 8, Sequential{})
	assert.ErrorIs(t, d.Compute(core.ComputeJob{Kernel: core.KernelUpdate}), errNotSetup)
	assert.ErrorIs(t, d.Draw(core.DrawJob{}), errNotSetup)
}

func TestDeviceSetupRejectsEmptyPopulation(t *testing.T) {
	d := NewDevice(8, 8, Sequential{})
	assert.ErrorIs(t, d.Setup(0, nil), core.ErrEmptyPopulation)
}

func TestDeviceUnknownKernel(t *testing.T) {
	d := newInitializedDevice(t, 4, Sequential{})
	assert.Error(t, d.Compute(core.ComputeJob{Kernel: core.Kernel(99)}))
}

func TestDeviceInitCoverage(t *testing.T) {
	const n = 10000
	d := newInitializedDevice(t, n, nil)
	s := d.Store()
	require.Equal(t, n, s.Len())

	for i := 0; i < n; i++ {
		p := s.Position(i)
		require.True(t, p.X() >= -5 && p.X() <= 5, "x out of range at %d", i)
		require.True(t, p.Z() >= -5 && p.Z() <= 5, "z out of range at %d", i)
		require.Equal(t, float32(0), p.Y())
		require.Equal(t, mgl32.Vec3{1, 1, 1}, s.Color(i))
	}
}

func TestDeviceLaneOrderDoesNotMatter(t *testing.T) {
	const n = 4096
	pool := NewPool(8)
	t.Cleanup(pool.Close)
	pooled := newInitializedDevice(t, n, pool)
	shuffled := newInitializedDevice(t, n, shuffledLanes{rng: rand.New(rand.NewSource(1))})
	sequential := newInitializedDevice(t, n, Sequential{})

	// Give every particle some height and sideways motion.
	for _, d := range []*Device{pooled, shuffled, sequential} {
		s := d.Store()
		for i := 0; i < n; i++ {
			p := s.Position(i)
			s.Seed(i, mgl32.Vec3{p.X(), core.Hash(uint32(i)+2) * 10, p.Z()}, mgl32.Vec3{0.01, 0, -0.01})
		}
	}

	job := core.ComputeJob{Kernel: core.KernelUpdate, Params: core.DefaultParamValues()}
	for frame := 0; frame < 120; frame++ {
		require.NoError(t, pooled.Compute(job))
		require.NoError(t, shuffled.Compute(job))
		require.NoError(t, sequential.Compute(job))
	}

	assert.True(t, sequential.Store().Equal(pooled.Store()), "pool differs from sequential")
	assert.True(t, sequential.Store().Equal(shuffled.Store()), "shuffled differs from sequential")
}

func TestDeviceNeverBelowFloor(t *testing.T) {
	d := newInitializedDevice(t, 1000, nil)
	s := d.Store()
	for i := 0; i < s.Len(); i++ {
		s.Seed(i, s.Position(i), mgl32.Vec3{0, 0.2, 0})
	}

	job := core.ComputeJob{Kernel: core.KernelUpdate, Params: core.DefaultParamValues()}
	for frame := 0; frame < 300; frame++ {
		require.NoError(t, d.Compute(job))
		for i := 0; i < s.Len(); i++ {
			require.GreaterOrEqual(t, s.Position(i).Y(), float32(0))
		}
	}
}

func TestDeviceDrawDoesNotMutate(t *testing.T) {
	d := newInitializedDevice(t, 500, nil)
	before := d.Store().Clone()

	cam := core.NewOrbitCamera(mgl32.Vec3{0, 30, 0}, mgl32.Vec3{})
	require.NoError(t, d.Draw(core.DrawJob{
		View:       cam.GetViewMatrix(),
		Projection: cam.GetProjectionMatrix(),
		Size:       0.12,
	}))

	assert.True(t, before.Equal(d.Store()))
	assert.Equal(t, 500, d.Drawn())
}
