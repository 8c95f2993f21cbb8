package pipeline

import "sync"

// DefaultBufferCapacity is the standard compression buffer size.
const DefaultBufferCapacity = 8192

// Default-capacity arenas are recycled through a pool so that pipeline
// restarts reuse the same backing memory; other sizes fall back to plain
// heap allocation.
var arenaPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, DefaultBufferCapacity)
		return &buf
	},
}

// acquireArena returns a compression buffer of the requested capacity and
// whether it came from the pool. A non-positive capacity yields nil: the
// pipeline built on it is permanently non-functional.
func acquireArena(capacity int) (*[]byte, bool) {
	if capacity <= 0 {
		return nil, false
	}
	if capacity == DefaultBufferCapacity {
		return arenaPool.Get().(*[]byte), true
	}
	buf := make([]byte, capacity)
	return &buf, false
}

// releaseArena returns a pooled arena for reuse.
func releaseArena(buf *[]byte, pooled bool) {
	if pooled && buf != nil {
		arenaPool.Put(buf)
	}
}
