package wire

import (
	"encoding/json"
	"testing"
)

func TestChunkMessageFieldNames(t *testing.T) {
	msg := ChunkMessage{
		Type:             TypeAudioChunk,
		Timestamp:        1234,
		SampleCount:      16,
		Compressed:       true,
		CompressionRatio: 1.5,
		EncodingTimeMs:   2,
		Data:             "AAAA",
		Performance: Performance{
			ProcessingTimeMs: 3,
			DataSizeBytes:    4,
			RawSizeBytes:     32,
		},
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// The collector matches on exact snake_case keys.
	for _, key := range []string{
		"type", "timestamp", "sample_count", "compressed",
		"compression_ratio", "encoding_time_ms", "data", "performance",
	} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	perf, ok := got["performance"].(map[string]interface{})
	if !ok {
		t.Fatal("performance is not an object")
	}
	for _, key := range []string{"processing_time_ms", "data_size_bytes", "raw_size_bytes"} {
		if _, ok := perf[key]; !ok {
			t.Errorf("missing performance key %q", key)
		}
	}

	if got["type"] != TypeAudioChunk {
		t.Errorf("expected type %q, got %v", TypeAudioChunk, got["type"])
	}
}
