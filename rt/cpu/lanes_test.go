package cpu

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolVisitsEveryLaneOnce(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	for _, n := range []int{0, 1, 255, 256, 1000, 10001} {
		hits := make([]int32, n)
		pool.Dispatch(n, func(i int) { atomic.AddInt32(&hits[i], 1) })
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: lane %d ran %d times", n, i, h)
			}
		}
	}
}

func TestPoolDefaultsToGOMAXPROCS(t *testing.T) {
	pool := NewPool(0)
	defer pool.Close()
	assert.Greater(t, pool.Workers(), 0)
}

func TestPoolCloseTwice(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	assert.NotPanics(t, pool.Close)
}

func TestSequentialOrder(t *testing.T) {
	var got []int
	Sequential{}.Dispatch(5, func(i int) { got = append(got, i) })
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}
