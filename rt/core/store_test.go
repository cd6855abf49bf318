package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	for _, n := range []int{1, 4, 10000} {
		s, err := NewStore(n)
		require.NoError(t, err)
		assert.Equal(t, n, s.Len())
		assert.True(t, s.lengthsAgree())
	}

	_, err := NewStore(0)
	assert.ErrorIs(t, err, ErrEmptyPopulation)
	_, err = NewStore(-3)
	assert.ErrorIs(t, err, ErrEmptyPopulation)
}

func TestStoreCloneIsDeep(t *testing.T) {
	s := newTestStore(t, 2)
	s.Seed(0, mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 5, 6})
	c := s.Clone()
	require.True(t, s.Equal(c))

	c.Seed(0, mgl32.Vec3{}, mgl32.Vec3{})
	assert.False(t, s.Equal(c))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, s.Position(0))
}

func TestStoreEqualDifferentLength(t *testing.T) {
	assert.False(t, newTestStore(t, 2).Equal(newTestStore(t, 3)))
}

func TestStoreIsView(t *testing.T) {
	var v View = newTestStore(t, 5)
	assert.Equal(t, 5, v.Len())
}
