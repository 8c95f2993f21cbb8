// Package codec implements the silence-aware run-length compression used
// for PCM audio chunks before they are base64-encoded and streamed to the
// collector.
//
// The scheme is one-directional: consecutive low-amplitude samples are
// replaced by a three-byte run descriptor (marker + little-endian length),
// everything else is copied through as raw little-endian sample bytes.
// A raw sample byte that happens to equal SilenceMarker is indistinguishable
// from a run descriptor — the stream is not self-synchronizing and no decoder
// exists on this side. The collector is expected to cope; do not "fix" this
// here without defining an escaping scheme end to end.
package codec

import "encoding/binary"

const (
	// SilenceThreshold is the maximum absolute amplitude still counted as silence.
	SilenceThreshold = 100

	// MinSilenceRun is the number of consecutive quiet samples required
	// before a position is committed to run-length encoding.
	MinSilenceRun = 8

	// MaxSilenceRun caps a single run descriptor. Longer stretches of
	// silence are encoded as multiple runs.
	MaxSilenceRun = 2048

	// SilenceMarker prefixes a run descriptor in the compressed stream.
	SilenceMarker = 0xFF
)

// Compress run-length encodes samples into dst and returns the number of
// bytes written plus the number of silence runs encoded.
//
// The output cursor never advances past cap(dst)-4: when less than four
// bytes of headroom remain the encoder stops consuming input and returns
// what it has. That truncation is deliberately silent — the caller only
// sees a shorter-than-expected length, never an error.
//
// Nil or empty input yields (0, 0).
func Compress(samples []int16, dst []byte) (int, int) {
	if len(samples) == 0 || dst == nil {
		return 0, 0
	}

	out := 0
	runs := 0
	limit := cap(dst) - 4
	dst = dst[:cap(dst)]

	i := 0
	for i < len(samples) {
		if out >= limit {
			break
		}

		if silenceStartsAt(samples[i:]) {
			n := countSilence(samples[i:])
			dst[out] = SilenceMarker
			binary.LittleEndian.PutUint16(dst[out+1:], uint16(n))
			out += 3
			i += n
			runs++
		} else {
			binary.LittleEndian.PutUint16(dst[out:], uint16(samples[i]))
			out += 2
			i++
		}
	}

	return out, runs
}

// silenceStartsAt probes the first MinSilenceRun samples. A run is only
// committed when at least MinSilenceRun quiet samples remain; a shorter
// quiet tail is copied through raw. The probe and the count in
// countSilence intentionally apply the same threshold twice — the probe's
// early exit is policy, not an optimization.
func silenceStartsAt(samples []int16) bool {
	if len(samples) < MinSilenceRun {
		return false
	}
	for _, s := range samples[:MinSilenceRun] {
		if abs(s) > SilenceThreshold {
			return false
		}
	}
	return true
}

// countSilence counts quiet samples from the start of the slice, capped at
// MaxSilenceRun. The result always fits the two-byte run length field.
func countSilence(samples []int16) int {
	max := MaxSilenceRun
	if len(samples) < max {
		max = len(samples)
	}
	n := 0
	for n < max && abs(samples[n]) <= SilenceThreshold {
		n++
	}
	return n
}

func abs(s int16) int {
	if s < 0 {
		return -int(s)
	}
	return int(s)
}
