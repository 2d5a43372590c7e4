package indexcore

// Test Plan:
// - throttle always forwards the first update of a new phase
// - throttle suppresses updates within the interval
// - throttle always forwards a completion update (current >= total)
// - a nil ProgressFunc is safe to call through throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottle_ForwardsFirstUpdatePerPhase(t *testing.T) {
	t.Parallel()
	var calls int
	fn := throttle(func(ProgressUpdate) { calls++ }, time.Hour)

	fn(ProgressUpdate{Phase: PhaseScanning, Current: 0, Total: 10})
	assert.Equal(t, 1, calls)
}

func TestThrottle_SuppressesWithinInterval(t *testing.T) {
	t.Parallel()
	var calls int
	fn := throttle(func(ProgressUpdate) { calls++ }, time.Hour)

	fn(ProgressUpdate{Phase: PhaseEmbedding, Current: 1, Total: 100})
	fn(ProgressUpdate{Phase: PhaseEmbedding, Current: 2, Total: 100})
	assert.Equal(t, 1, calls)
}

func TestThrottle_AlwaysForwardsCompletion(t *testing.T) {
	t.Parallel()
	var calls int
	fn := throttle(func(ProgressUpdate) { calls++ }, time.Hour)

	fn(ProgressUpdate{Phase: PhaseWriting, Current: 1, Total: 10})
	fn(ProgressUpdate{Phase: PhaseWriting, Current: 10, Total: 10})
	assert.Equal(t, 2, calls)
}

func TestThrottle_NilFuncIsSafe(t *testing.T) {
	t.Parallel()
	fn := throttle(nil, time.Second)
	assert.NotPanics(t, func() { fn(ProgressUpdate{}) })
}

func TestProgressUpdate_Percentage(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, ProgressUpdate{Current: 1, Total: 0}.Percentage())
	assert.Equal(t, 50.0, ProgressUpdate{Current: 5, Total: 10}.Percentage())
	assert.Equal(t, 100.0, ProgressUpdate{Current: 20, Total: 10}.Percentage())
}
