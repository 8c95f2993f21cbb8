package testutil

import (
	"runtime"
	"testing"
	"time"
)

// AssertNoGoroutineLeaks waits for the goroutine count to settle back to the
// recorded baseline (plus margin) and fails the test if it never does.
func AssertNoGoroutineLeaks(t *testing.T, baseline, margin int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= baseline+margin {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Errorf("goroutine leak: baseline=%d, current=%d, margin=%d",
		baseline, runtime.NumGoroutine(), margin)
}
