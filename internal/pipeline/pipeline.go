// Package pipeline composes the silence codec, base64 encoding, statistics,
// and envelope building into the single operation that streams one audio
// chunk to the collector.
//
// A pipeline is single-writer: it owns one compression buffer for its whole
// lifetime, so encode, stream, and reset must be confined to one goroutine.
// Stats is safe to call concurrently; the debug HTTP handler reads it while
// the streaming loop runs.
package pipeline

import (
	"encoding/base64"
	"encoding/json"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/voxlink/audio-uplink/internal/codec"
	"github.com/voxlink/audio-uplink/internal/metrics"
	"github.com/voxlink/audio-uplink/internal/stats"
	"github.com/voxlink/audio-uplink/internal/transport"
	"github.com/voxlink/audio-uplink/internal/wire"
)

// Pipeline owns a reusable compression arena and the statistics tracker.
type Pipeline struct {
	arena   *[]byte // nil when construction failed
	pooled  bool
	buf     []byte
	tracker *stats.Tracker
	logger  *zap.Logger
}

// New creates a pipeline with a compression buffer of the given capacity.
// Construction fails softly: with an unusable capacity the pipeline still
// exists, but every operation on it fails fast.
func New(capacity int, logger *zap.Logger) *Pipeline {
	p := &Pipeline{tracker: stats.New(), logger: logger}

	arena, pooled := acquireArena(capacity)
	if arena == nil {
		logger.Error("compression buffer allocation failed, pipeline disabled",
			zap.Int("capacity", capacity))
		return p
	}

	p.arena = arena
	p.pooled = pooled
	p.buf = (*arena)[:capacity]
	logger.Info("pipeline ready",
		zap.Int("capacity", capacity),
		zap.Bool("pooledArena", pooled),
	)
	return p
}

// Close releases the compression arena. The pipeline is unusable afterwards.
func (p *Pipeline) Close() {
	releaseArena(p.arena, p.pooled)
	p.arena = nil
	p.buf = nil
}

// EncodeChunk compresses the samples into the owned buffer, base64-encodes
// the result, and records the encode in the statistics. Returns false —
// leaving all counters untouched — for empty input, a disabled pipeline, or
// a compression result of zero bytes.
func (p *Pipeline) EncodeChunk(samples []int16) (string, bool) {
	if len(samples) == 0 || p.buf == nil {
		return "", false
	}

	start := time.Now()
	rawBytes := len(samples) * 2

	// Compression may silently truncate when the buffer fills: the only
	// symptom is a smaller-than-warranted length. That asymmetry with the
	// hard construction failure above is inherited behavior the collector
	// side depends on; keep it.
	n, runs := codec.Compress(samples, p.buf)
	if n == 0 {
		return "", false
	}

	encoded := base64.StdEncoding.EncodeToString(p.buf[:n])
	elapsedMs := time.Since(start).Milliseconds()

	p.tracker.RecordEncode(rawBytes, n, elapsedMs, runs)

	snap := p.tracker.Snapshot()
	metrics.RawBytesTotal.Add(float64(rawBytes))
	metrics.CompressedBytesTotal.Add(float64(n))
	metrics.SilenceRunsTotal.Add(float64(runs))
	metrics.CompressionRatio.Set(snap.LastRatio)
	metrics.EncodeDuration.Observe(float64(elapsedMs))

	p.logger.Debug("chunk encoded",
		zap.Int("samples", len(samples)),
		zap.Int("rawBytes", rawBytes),
		zap.Int("compressedBytes", n),
		zap.Int("silenceRuns", runs),
		zap.Float64("ratio", snap.LastRatio),
	)

	return encoded, true
}

// StreamChunk compresses, encodes, wraps, and sends one chunk as a single
// synchronous attempt. The boolean is the transport's verdict; the send
// outcome is also folded into the statistics. No retries.
func (p *Pipeline) StreamChunk(t transport.Transport, samples []int16) bool {
	if len(samples) == 0 {
		p.logger.Warn("stream called with no samples")
		return false
	}
	if p.buf == nil {
		return false
	}

	start := time.Now()

	encoded, ok := p.EncodeChunk(samples)
	if !ok {
		p.logger.Error("chunk encode failed")
		return false
	}

	snap := p.tracker.Snapshot()
	msg := wire.ChunkMessage{
		Type:             wire.TypeAudioChunk,
		Timestamp:        time.Now().UnixMilli(),
		SampleCount:      len(samples),
		Compressed:       true,
		CompressionRatio: snap.LastRatio,
		EncodingTimeMs:   snap.LastEncodeMs,
		Data:             encoded,
		Performance: wire.Performance{
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			DataSizeBytes:    len(encoded),
			RawSizeBytes:     len(samples) * 2,
		},
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error("envelope marshal failed", zap.Error(err))
		p.recordSend(false)
		return false
	}

	sent := t.SendText(string(raw))
	p.recordSend(sent)

	if sent {
		p.logger.Debug("chunk streamed",
			zap.Int("samples", len(samples)),
			zap.Int("payloadChars", len(encoded)),
		)
	} else {
		p.logger.Error("chunk send failed", zap.Int("samples", len(samples)))
	}
	return sent
}

func (p *Pipeline) recordSend(ok bool) {
	p.tracker.RecordSend(ok)
	if ok {
		metrics.ChunksSentTotal.Inc()
	} else {
		metrics.ChunksFailedTotal.Inc()
	}
}

// Stats returns a copy of the current statistics.
func (p *Pipeline) Stats() stats.Snapshot {
	return p.tracker.Snapshot()
}

// ResetStats zeroes the statistics.
func (p *Pipeline) ResetStats() {
	p.tracker.Reset()
}

// SelfTest exercises the encode path with known vectors. It mutates the
// statistics, so run it before real traffic.
func (p *Pipeline) SelfTest() bool {
	if p.buf == nil {
		p.logger.Error("self-test failed: no compression buffer")
		return false
	}

	mixed := []int16{1000, -1000, 500, -500, 0, 0, 0, 0, 2000, -2000, 0, 0, 0, 0, 100, -100}
	if encoded, ok := p.EncodeChunk(mixed); !ok || encoded == "" {
		p.logger.Error("self-test failed: mixed vector did not encode")
		return false
	}

	// Half silence, half ramp must land strictly between empty and raw size.
	halfSilent := make([]int16, 16)
	for i := 8; i < 16; i++ {
		halfSilent[i] = int16(200 * i)
	}
	n, _ := codec.Compress(halfSilent, p.buf)
	if n == 0 || n >= len(halfSilent)*2 {
		p.logger.Error("self-test failed: compression out of bounds", zap.Int("compressed", n))
		return false
	}

	p.logger.Info("self-test passed", zap.Int("halfSilentBytes", n))
	return true
}

// LogDiagnostics dumps the statistics snapshot and memory figures. Log-only;
// not part of the wire protocol.
func (p *Pipeline) LogDiagnostics() {
	snap := p.tracker.Snapshot()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	p.logger.Info("pipeline diagnostics",
		zap.Uint64("totalRawBytes", snap.TotalRawBytes),
		zap.Uint64("totalCompressedBytes", snap.TotalCompressedBytes),
		zap.Float64("averageRatio", snap.AverageRatio),
		zap.Float64("lastRatio", snap.LastRatio),
		zap.Uint64("silenceRuns", snap.SilenceRuns),
		zap.Uint64("chunksSent", snap.ChunksSent),
		zap.Uint64("chunksFailed", snap.ChunksFailed),
		zap.Int64("lastEncodeMs", snap.LastEncodeMs),
		zap.Uint64("heapInuseBytes", ms.HeapInuse),
		zap.Uint64("heapSysBytes", ms.HeapSys),
	)
}
