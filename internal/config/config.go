// Package config loads the agent configuration from the environment.
// Codec thresholds (silence threshold, run lengths, marker byte) are fixed
// at build time in the codec package and deliberately absent here.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every runtime-tunable setting of the uplink agent.
type Config struct {
	// Collector endpoint, dialed as wss://host:port<path>.
	CollectorHost string `env:"COLLECTOR_HOST, default=collector.local"`
	CollectorPort int    `env:"COLLECTOR_PORT, default=443"`
	CollectorPath string `env:"COLLECTOR_PATH, default=/ingest"`

	// DebugAddr serves /metrics and /internal/stats.
	DebugAddr string `env:"DEBUG_ADDR, default=:9091"`

	// BufferCapacity is the compression arena size in bytes.
	BufferCapacity int `env:"COMPRESSION_BUFFER_BYTES, default=8192"`

	// Capture geometry.
	SampleRate   int `env:"SAMPLE_RATE, default=16000"`
	ChunkSamples int `env:"CHUNK_SAMPLES, default=1024"`
	RingSeconds  int `env:"RING_SECONDS, default=4"`

	// DevelopmentTLS asks for trust-all certificate handling. Honored only
	// in a development build; production builds pin the CA regardless.
	DevelopmentTLS bool `env:"DEV_TLS_INSECURE, default=false"`

	// VerifyOnStart runs a one-shot connect probe before streaming.
	VerifyOnStart bool `env:"VERIFY_ON_START, default=true"`
}

// Load reads the configuration from the environment and rejects values the
// agent cannot run on.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects non-positive capture geometry and buffer sizes. The tick
// interval divides by the sample rate and the ring capacity is a modulus, so
// a zero anywhere here would take the agent down at runtime.
func (c *Config) validate() error {
	if c.BufferCapacity <= 0 {
		return fmt.Errorf("COMPRESSION_BUFFER_BYTES must be positive, got %d", c.BufferCapacity)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("SAMPLE_RATE must be positive, got %d", c.SampleRate)
	}
	if c.ChunkSamples <= 0 {
		return fmt.Errorf("CHUNK_SAMPLES must be positive, got %d", c.ChunkSamples)
	}
	if c.RingSeconds <= 0 {
		return fmt.Errorf("RING_SECONDS must be positive, got %d", c.RingSeconds)
	}
	return nil
}
