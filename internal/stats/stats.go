// Package stats tracks cumulative compression and delivery counters for the
// uplink pipeline. Updates come from the single pipeline goroutine, but
// snapshots are served to the debug HTTP handler from other goroutines, so
// the tracker carries its own lock.
package stats

import "sync"

// Snapshot is an immutable copy of the tracker state.
type Snapshot struct {
	TotalRawBytes        uint64  `json:"total_raw_bytes"`
	TotalCompressedBytes uint64  `json:"total_compressed_bytes"`
	SilenceRuns          uint64  `json:"silence_runs"`
	ChunksSent           uint64  `json:"chunks_sent"`
	ChunksFailed         uint64  `json:"chunks_failed"`
	LastEncodeMs         int64   `json:"last_encode_ms"`
	LastRatio            float64 `json:"last_ratio"`
	AverageRatio         float64 `json:"average_ratio"`
}

// Tracker accumulates encode and send outcomes. Safe for concurrent use.
type Tracker struct {
	mu sync.Mutex
	s  Snapshot
}

// New returns a zeroed tracker with the running average seeded at 1.0.
func New() *Tracker {
	return &Tracker{s: Snapshot{AverageRatio: 1.0}}
}

// RecordEncode folds one encode result into the totals. The running average
// is the original biased smoothing avg' = (avg + last) / 2 — it is observable
// downstream and must not be replaced with an arithmetic mean.
func (t *Tracker) RecordEncode(rawBytes, compressedBytes int, elapsedMs int64, silenceRuns int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.s.TotalRawBytes += uint64(rawBytes)
	t.s.TotalCompressedBytes += uint64(compressedBytes)
	t.s.SilenceRuns += uint64(silenceRuns)
	t.s.LastEncodeMs = elapsedMs
	t.s.LastRatio = float64(rawBytes) / float64(compressedBytes)
	t.s.AverageRatio = (t.s.AverageRatio + t.s.LastRatio) / 2
}

// RecordSend counts one delivery attempt.
func (t *Tracker) RecordSend(ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ok {
		t.s.ChunksSent++
	} else {
		t.s.ChunksFailed++
	}
}

// Snapshot returns a copy of the current counters.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s
}

// Reset zeroes every counter and re-seeds the running average at 1.0.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.s = Snapshot{AverageRatio: 1.0}
}
