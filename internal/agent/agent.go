// Package agent wires capture, compression, and the collector transport
// into the device-side streaming loop.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/voxlink/audio-uplink/internal/capture"
	"github.com/voxlink/audio-uplink/internal/config"
	"github.com/voxlink/audio-uplink/internal/metrics"
	"github.com/voxlink/audio-uplink/internal/pipeline"
	"github.com/voxlink/audio-uplink/internal/secure"
	"github.com/voxlink/audio-uplink/internal/transport"
)

// Agent owns the streaming loop. The pipeline's encode path runs only on the
// loop goroutine; the capture source feeds the ring buffer from its own
// goroutine, which the ring tolerates (single writer, single reader), and the
// debug handler reads stats and connection state from HTTP server goroutines,
// which the tracker and transport guard themselves.
type Agent struct {
	cfg          *config.Config
	logger       *zap.Logger
	configurator *secure.Configurator
	transport    transport.Transport
	pipe         *pipeline.Pipeline
	ring         *capture.Ring
	source       capture.Source
}

// New assembles an agent. The transport's trust settings must already have
// been installed by the configurator (Setup runs once, before any use).
func New(cfg *config.Config, logger *zap.Logger, configurator *secure.Configurator,
	tr transport.Transport, pipe *pipeline.Pipeline, ring *capture.Ring, source capture.Source) *Agent {
	return &Agent{
		cfg:          cfg,
		logger:       logger,
		configurator: configurator,
		transport:    tr,
		pipe:         pipe,
		ring:         ring,
		source:       source,
	}
}

// Tick streams the most recent chunk from the capture ring: one synchronous
// compress-encode-send attempt, no retry.
func (a *Agent) Tick() bool {
	samples := a.ring.Snapshot(a.cfg.ChunkSamples)
	if len(samples) == 0 {
		return false
	}
	return a.pipe.StreamChunk(a.transport, samples)
}

// Run connects to the collector and streams chunks until the context is
// cancelled. On shutdown it dumps diagnostics and closes the transport.
func (a *Agent) Run(ctx context.Context) error {
	if a.cfg.SampleRate <= 0 || a.cfg.ChunkSamples <= 0 {
		return fmt.Errorf("invalid capture geometry: %d samples/chunk at %d Hz",
			a.cfg.ChunkSamples, a.cfg.SampleRate)
	}
	if !a.configurator.Configured() {
		return errors.New("transport trust not configured, call Setup first")
	}

	if a.cfg.VerifyOnStart {
		if !a.configurator.Verify(a.transport, a.cfg.CollectorHost) {
			return fmt.Errorf("collector verify probe failed for %s", a.cfg.CollectorHost)
		}
	}

	if !a.transport.Connect(a.cfg.CollectorHost, a.cfg.CollectorPort) {
		return fmt.Errorf("connect to collector %s:%d failed", a.cfg.CollectorHost, a.cfg.CollectorPort)
	}
	metrics.Connected.Set(1)

	defer func() {
		a.pipe.LogDiagnostics()
		a.transport.Close()
		metrics.Connected.Set(0)
		a.logger.Info("agent stopped")
	}()

	interval := time.Duration(a.cfg.ChunkSamples) * time.Second / time.Duration(a.cfg.SampleRate)
	a.logger.Info("agent streaming",
		zap.String("collector", a.cfg.CollectorHost),
		zap.Int("chunkSamples", a.cfg.ChunkSamples),
		zap.Duration("interval", interval),
	)

	go a.captureLoop(ctx, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.Tick()
		}
	}
}

// captureLoop pulls chunks from the source into the ring at the capture
// cadence. Exits when the source is exhausted or the context ends.
func (a *Agent) captureLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			chunk, ok := a.source.NextChunk()
			if !ok {
				a.logger.Info("capture source exhausted")
				return
			}
			a.ring.Write(chunk)
		}
	}
}
