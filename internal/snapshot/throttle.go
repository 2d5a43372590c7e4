package snapshot

import (
	"sync"
	"time"
)

// ThrottledSaver batches progress-driven snapshot writes so an indexing run
// reporting progress on every chunk doesn't turn into a write per chunk:
// spec.md §4.6 allows at most one write every 2 seconds. The final call
// after an indexing run completes should go through Flush, not Update, so
// the last progress value is never lost to throttling.
type ThrottledSaver struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	save     func() error
}

// NewThrottledSaver wraps save (typically a closure over Save(dataDir, snap,
// time.Now())) with the given minimum interval between actual writes.
func NewThrottledSaver(interval time.Duration, save func() error) *ThrottledSaver {
	return &ThrottledSaver{interval: interval, save: save}
}

// Update calls save if at least interval has elapsed since the last write;
// otherwise it's a no-op. now is passed in rather than read from time.Now
// so callers control the clock in tests.
func (t *ThrottledSaver) Update(now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return nil
	}
	if err := t.save(); err != nil {
		return err
	}
	t.last = now
	return nil
}

// Flush always calls save, regardless of the interval, and should be used
// for the run's final progress update.
func (t *ThrottledSaver) Flush(now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.save(); err != nil {
		return err
	}
	t.last = now
	return nil
}
