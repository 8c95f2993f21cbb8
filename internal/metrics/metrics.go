package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	CompressionRatio = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "uplink_compression_ratio",
		Help: "Compression ratio (raw/compressed) of the most recent encode",
	})
	Connected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "uplink_transport_connected",
		Help: "Whether the collector transport is currently connected (0/1)",
	})
)

// Counters
var (
	ChunksSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uplink_chunks_sent_total",
		Help: "Total audio chunks accepted by the collector transport",
	})
	ChunksFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uplink_chunks_failed_total",
		Help: "Total audio chunk sends rejected or failed",
	})
	SilenceRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uplink_silence_runs_total",
		Help: "Total silence runs replaced by run-length descriptors",
	})
	RawBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uplink_raw_bytes_total",
		Help: "Total raw PCM bytes fed into the compressor",
	})
	CompressedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uplink_compressed_bytes_total",
		Help: "Total bytes produced by the compressor",
	})
)

// Histograms
var (
	EncodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "uplink_encode_duration_ms",
		Help:    "Compress+base64 encode duration in milliseconds",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
	})
)
