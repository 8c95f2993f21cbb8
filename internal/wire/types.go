// Package wire defines the JSON messages exchanged with the collector.
package wire

// TypeAudioChunk tags a compressed audio chunk message.
const TypeAudioChunk = "audio_chunk"

// ChunkMessage is the envelope for one compressed, base64-encoded audio
// chunk. Field names are the collector's wire contract; do not rename.
type ChunkMessage struct {
	Type             string      `json:"type"`
	Timestamp        int64       `json:"timestamp"`
	SampleCount      int         `json:"sample_count"`
	Compressed       bool        `json:"compressed"`
	CompressionRatio float64     `json:"compression_ratio"`
	EncodingTimeMs   int64       `json:"encoding_time_ms"`
	Data             string      `json:"data"`
	Performance      Performance `json:"performance"`
}

// Performance carries per-chunk processing measurements.
type Performance struct {
	ProcessingTimeMs int64 `json:"processing_time_ms"`
	DataSizeBytes    int   `json:"data_size_bytes"`
	RawSizeBytes     int   `json:"raw_size_bytes"`
}
