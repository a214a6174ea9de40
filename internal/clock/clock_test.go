package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonotonic_StrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMonotonic(Func(func() time.Time { return fixed }))

	first := m.Now()
	second := m.Now()
	third := m.Now()

	assert.Equal(t, fixed, first)
	assert.True(t, second.After(first))
	assert.True(t, third.After(second))
	assert.Equal(t, fixed.Add(2*time.Nanosecond), third)
}

func TestMonotonic_ClockGoesBackwards(t *testing.T) {
	times := []time.Time{
		time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC), // часы ушли назад
	}
	i := 0
	m := NewMonotonic(Func(func() time.Time {
		t := times[i]
		i++
		return t
	}))

	a := m.Now()
	b := m.Now()
	assert.True(t, b.After(a))
}

func TestMonotonic_Observe(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMonotonic(Func(func() time.Time { return fixed }))

	stored := fixed.Add(time.Hour)
	m.Observe(stored)
	assert.Equal(t, stored, m.Last())
	assert.True(t, m.Now().After(stored))

	// более ранняя метка ничего не меняет
	m.Observe(fixed)
	assert.True(t, m.Last().After(stored))
}

func TestMonotonic_Concurrent(t *testing.T) {
	m := NewMonotonic(nil)

	const workers = 8
	const perWorker = 200

	results := make(chan time.Time, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				results <- m.Now()
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[time.Time]bool)
	for ts := range results {
		require.False(t, seen[ts], "duplicate timestamp %v", ts)
		seen[ts] = true
	}
	assert.Len(t, seen, workers*perWorker)
}
