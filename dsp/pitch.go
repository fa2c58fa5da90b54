// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PeakTracker estimates pitch from spectral peaks. In every STFT frame it
// keeps the local maxima that lie inside [fmin, fmax) and exceed Threshold
// times the frame maximum, refines them by parabolic interpolation and
// reports the strongest one.
type PeakTracker struct {
	NFFT      int
	Hop       int
	Threshold float64
}

// NewPeakTracker returns a tracker with the default framing and a 0.1
// relative threshold.
func NewPeakTracker() PeakTracker {
	return PeakTracker{NFFT: DefaultNFFT, Hop: DefaultHop, Threshold: 0.1}
}

// Track returns one frequency per frame that holds an in-band peak.
// Frames without one are skipped.
func (p PeakTracker) Track(x []float64, sampleRate int, fmin, fmax float64) []float64 {
	if sampleRate <= 0 {
		return nil
	}

	mag := Magnitude(STFT(x, p.NFFT, p.Hop))
	freqs := Frequencies(sampleRate, p.NFFT)
	binHz := float64(sampleRate) / float64(p.NFFT)

	var out []float64
	for _, frame := range mag {
		ref := floats.Max(frame) * p.Threshold
		if ref <= 0 {
			continue
		}

		pitch, strength := 0.0, 0.0
		for k := 1; k < len(frame)-1; k++ {
			if freqs[k] < fmin || freqs[k] >= fmax {
				continue
			}

			s := frame[k]
			if s <= ref || s <= frame[k-1] || s < frame[k+1] {
				continue
			}

			avg := 0.5 * (frame[k+1] - frame[k-1])
			shift := 2*s - frame[k+1] - frame[k-1]
			if math.Abs(shift) < tiny {
				shift = 1
			}
			shift = avg / shift

			if m := s + 0.5*avg*shift; m > strength {
				strength = m
				pitch = (float64(k) + shift) * binHz
			}
		}

		if pitch > 0 {
			out = append(out, pitch)
		}
	}

	return out
}
