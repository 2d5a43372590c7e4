package indexcore

import "time"

// Phase is one stage of an indexCodebase run, reported via ProgressFunc.
type Phase string

const (
	PhaseScanning  Phase = "scanning"
	PhaseChunking  Phase = "chunking"
	PhaseEmbedding Phase = "embedding"
	PhaseWriting   Phase = "writing"
)

// ProgressUpdate is one point-in-time report within a phase.
type ProgressUpdate struct {
	Phase   Phase
	Current int
	Total   int
}

// Percentage returns Current/Total as a value in [0,100], 0 if Total is 0.
func (u ProgressUpdate) Percentage() float64 {
	if u.Total <= 0 {
		return 0
	}
	pct := float64(u.Current) / float64(u.Total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// ProgressFunc receives progress updates during indexCodebase. It is called
// from the indexing goroutine and must not block; implementations that need
// to forward updates elsewhere should use a bounded, non-blocking send.
type ProgressFunc func(ProgressUpdate)

// throttle wraps fn so it is invoked at most once per interval, except the
// very first update in each phase and any completion update (Current >=
// Total), which always go through.
func throttle(fn ProgressFunc, interval time.Duration) ProgressFunc {
	if fn == nil {
		return func(ProgressUpdate) {}
	}

	var last time.Time
	var lastPhase Phase
	return func(u ProgressUpdate) {
		now := time.Now()
		if u.Phase != lastPhase || now.Sub(last) >= interval || u.Current >= u.Total {
			fn(u)
			last = now
			lastPhase = u.Phase
		}
	}
}
