package capture

import "sync"

// Ring is a fixed-capacity circular buffer of int16 PCM samples sitting
// between the capture goroutine and the streaming loop. It is safe for
// concurrent use from a single writer and single reader; the pipeline
// downstream of Snapshot stays single-threaded.
type Ring struct {
	mu       sync.Mutex
	buf      []int16
	writePos int
	capacity int
	written  int // total samples ever written
}

// NewRing creates a ring buffer holding the given number of samples.
func NewRing(capacity int) *Ring {
	return &Ring{
		buf:      make([]int16, capacity),
		capacity: capacity,
	}
}

// Write appends samples, overwriting the oldest data when full.
func (r *Ring) Write(samples []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for len(samples) > 0 {
		n := copy(r.buf[r.writePos:], samples)
		samples = samples[n:]
		r.writePos = (r.writePos + n) % r.capacity
		r.written += n
	}
}

// Snapshot returns a copy of the most recent n samples. If fewer samples
// have been written, only the available ones are returned; an empty ring
// yields nil.
func (r *Ring) Snapshot(n int) []int16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > r.capacity {
		n = r.capacity
	}
	available := r.written
	if available > r.capacity {
		available = r.capacity
	}
	if n > available {
		n = available
	}
	if n == 0 {
		return nil
	}

	out := make([]int16, n)
	start := (r.writePos - n + r.capacity) % r.capacity

	if start+n <= r.capacity {
		copy(out, r.buf[start:start+n])
	} else {
		first := r.capacity - start
		copy(out[:first], r.buf[start:])
		copy(out[first:], r.buf[:n-first])
	}

	return out
}

// Available returns the number of samples currently stored.
func (r *Ring) Available() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	available := r.written
	if available > r.capacity {
		available = r.capacity
	}
	return available
}
