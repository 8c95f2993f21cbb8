// Package capture supplies raw PCM sample chunks to the uplink pipeline.
// On a real device the source wraps the microphone driver; the synthetic
// sources here stand in for it in the demo binary and in tests.
package capture

import (
	"math"
	"math/rand"
)

// Source supplies fixed-size chunks of signed 16-bit PCM samples.
type Source interface {
	// NextChunk returns the next chunk, or false when the source is
	// exhausted. The returned slice is owned by the caller.
	NextChunk() ([]int16, bool)
}

// GenerateSineWave produces a sine wave at the given frequency and duration
// as mono int16 PCM samples.
func GenerateSineWave(durationSec, frequency float64, sampleRate int, amplitude int16) []int16 {
	numSamples := int(durationSec * float64(sampleRate))
	samples := make([]int16, numSamples)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = int16(float64(amplitude) * math.Sin(2*math.Pi*frequency*t))
	}
	return samples
}

// SineSource produces an endless tone in fixed-size chunks.
type SineSource struct {
	frequency  float64
	sampleRate int
	amplitude  int16
	chunkSize  int
	pos        int
}

// NewSineSource creates a tone source.
func NewSineSource(frequency float64, sampleRate, chunkSize int, amplitude int16) *SineSource {
	return &SineSource{
		frequency:  frequency,
		sampleRate: sampleRate,
		amplitude:  amplitude,
		chunkSize:  chunkSize,
	}
}

func (s *SineSource) NextChunk() ([]int16, bool) {
	chunk := make([]int16, s.chunkSize)
	for i := range chunk {
		t := float64(s.pos+i) / float64(s.sampleRate)
		chunk[i] = int16(float64(s.amplitude) * math.Sin(2*math.Pi*s.frequency*t))
	}
	s.pos += s.chunkSize
	return chunk, true
}

// MixedSource produces chunks that are one quarter silence, one quarter
// tone, and half noise — a realistic mix for exercising the silence
// compressor end to end.
type MixedSource struct {
	chunkSize  int
	sampleRate int
	rng        *rand.Rand
}

// NewMixedSource creates a deterministic mixed-content source.
func NewMixedSource(sampleRate, chunkSize int, seed int64) *MixedSource {
	return &MixedSource{
		chunkSize:  chunkSize,
		sampleRate: sampleRate,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (m *MixedSource) NextChunk() ([]int16, bool) {
	chunk := make([]int16, m.chunkSize)
	quarter := m.chunkSize / 4
	for i := range chunk {
		switch {
		case i < quarter:
			chunk[i] = 0
		case i < 2*quarter:
			chunk[i] = int16(1000 * math.Sin(float64(i)*0.1))
		default:
			chunk[i] = int16(m.rng.Intn(2000) - 1000)
		}
	}
	return chunk, true
}
