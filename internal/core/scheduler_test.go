package core

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schedulers() map[string]func() Scheduler {
	return map[string]func() Scheduler{
		"sequential": func() Scheduler { return NewSequential() },
		"concurrent": func() Scheduler { return NewConcurrent(4, 7) },
	}
}

func TestSchedulerCommitWaitsForCompute(t *testing.T) {
	for name, mk := range schedulers() {
		t.Run(name, func(t *testing.T) {
			s := mk()
			defer s.Close()

			const n = 100
			var computed atomic.Int64
			var violations atomic.Int64
			compute := func(_, lo, hi int) {
				for i := lo; i < hi; i++ {
					computed.Add(1)
				}
			}
			commit := func(_, lo, hi int) {
				if computed.Load() != n {
					violations.Add(1)
				}
			}
			require.NoError(t, s.Step(n, compute, commit))
			assert.Zero(t, violations.Load())
			assert.Equal(t, StateIdle, s.State())
		})
	}
}

func TestSchedulerCoversEveryIndexOnce(t *testing.T) {
	for name, mk := range schedulers() {
		t.Run(name, func(t *testing.T) {
			s := mk()
			defer s.Close()

			const n = 53
			hits := make([]int32, n)
			compute := func(_, lo, hi int) {
				for i := lo; i < hi; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			}
			require.NoError(t, s.Step(n, compute, func(int, int, int) {}))
			for i, h := range hits {
				assert.EqualValues(t, 1, h, "index %d", i)
			}
		})
	}
}

func TestConcurrentBatches(t *testing.T) {
	c := NewConcurrent(2, 10)
	defer c.Close()
	assert.Equal(t, 0, c.Batches(0))
	assert.Equal(t, 1, c.Batches(10))
	assert.Equal(t, 3, c.Batches(21))

	var mu sync.Mutex
	seen := map[int][2]int{}
	err := c.Step(21, func(b, lo, hi int) {
		mu.Lock()
		seen[b] = [2]int{lo, hi}
		mu.Unlock()
	}, func(int, int, int) {})
	require.NoError(t, err)
	assert.Equal(t, map[int][2]int{0: {0, 10}, 1: {10, 20}, 2: {20, 21}}, seen)
}

func TestConcurrentPanicAbortsBeforeCommit(t *testing.T) {
	c := NewConcurrent(3, 4)
	defer c.Close()

	committed := false
	err := c.Step(16, func(b, _, _ int) {
		if b == 2 {
			panic("boom")
		}
	}, func(int, int, int) { committed = true })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, committed)

	// The pool stays usable after a failed step.
	require.NoError(t, c.Step(16, func(int, int, int) {}, func(int, int, int) {}))
}

func TestSchedulerRejectsReentrantStep(t *testing.T) {
	s := NewSequential()
	var inner error
	err := s.Step(1, func(int, int, int) {
		assert.Equal(t, StateCompute, s.State())
		inner = s.Step(1, func(int, int, int) {}, func(int, int, int) {})
	}, func(int, int, int) {
		assert.Equal(t, StateCommit, s.State())
	})
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrBusy)
}
