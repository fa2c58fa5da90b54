// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Spectral computes frame-wise spectral and temporal descriptors.
type Spectral struct {
	NFFT int
	Hop  int
	// Amin is the power floor used by Flatness.
	Amin float64
	// ZeroThreshold treats samples with a smaller magnitude as zero when
	// counting crossings.
	ZeroThreshold float64
}

func NewSpectral() Spectral {
	return Spectral{NFFT: DefaultNFFT, Hop: DefaultHop, Amin: 1e-10, ZeroThreshold: 1e-10}
}

// Centroid returns the magnitude-weighted mean frequency of every frame.
// Silent frames yield 0.
func (s Spectral) Centroid(x []float64, sampleRate int) []float64 {
	mag := Magnitude(STFT(x, s.NFFT, s.Hop))
	freqs := Frequencies(sampleRate, s.NFFT)

	out := make([]float64, len(mag))
	for t, frame := range mag {
		total := floats.Sum(frame)
		if total < tiny {
			continue
		}
		out[t] = floats.Dot(freqs, frame) / total
	}

	return out
}

// Flatness returns the ratio of geometric to arithmetic mean power per
// frame. A silent frame is perfectly flat (1).
func (s Spectral) Flatness(x []float64) []float64 {
	power := Power(Magnitude(STFT(x, s.NFFT, s.Hop)))

	out := make([]float64, len(power))
	for t, frame := range power {
		logSum, sum := 0.0, 0.0
		for _, p := range frame {
			p = max(p, s.Amin)
			logSum += math.Log(p)
			sum += p
		}
		n := float64(len(frame))
		out[t] = math.Exp(logSum/n) / (sum / n)
	}

	return out
}

// ZeroCrossingRate returns the fraction of sign changes per centred frame.
// Frames are padded with the edge samples.
func (s Spectral) ZeroCrossingRate(x []float64) []float64 {
	frames := FrameCount(len(x), s.Hop)
	pad := s.NFFT / 2
	last := len(x) - 1

	at := func(j int) float64 {
		v := x[min(max(j, 0), last)]
		if math.Abs(v) <= s.ZeroThreshold {
			return 0
		}

		return v
	}

	out := make([]float64, frames)
	for t := range out {
		start := t*s.Hop - pad
		crossings := 0
		prev := math.Signbit(at(start))
		for i := 1; i < s.NFFT; i++ {
			cur := math.Signbit(at(start + i))
			if cur != prev {
				crossings++
			}
			prev = cur
		}
		out[t] = float64(crossings) / float64(s.NFFT)
	}

	return out
}

// RMS returns the root-mean-square amplitude of every centred,
// zero-padded frame.
func (s Spectral) RMS(x []float64) []float64 {
	frames := FrameCount(len(x), s.Hop)
	pad := s.NFFT / 2

	out := make([]float64, frames)
	for t := range out {
		start := t*s.Hop - pad
		sum := 0.0
		for i := range s.NFFT {
			if j := start + i; j >= 0 && j < len(x) {
				sum += x[j] * x[j]
			}
		}
		out[t] = math.Sqrt(sum / float64(s.NFFT))
	}

	return out
}

// Peaks returns the frequencies of the perFrame strongest non-zero bins in
// each of the first maxFrames frames.
func (s Spectral) Peaks(x []float64, sampleRate, maxFrames, perFrame int) []float64 {
	mag := Magnitude(STFT(x, s.NFFT, s.Hop))
	if len(mag) > maxFrames {
		mag = mag[:maxFrames]
	}

	freqs := Frequencies(sampleRate, s.NFFT)
	sorted := make([]float64, s.NFFT/2+1)
	idx := make([]int, len(sorted))

	var out []float64
	for _, frame := range mag {
		copy(sorted, frame)
		floats.Argsort(sorted, idx)

		picked := 0
		for _, k := range slices.Backward(idx) {
			if picked == perFrame || frame[k] <= 0 {
				break
			}
			out = append(out, freqs[k])
			picked++
		}
	}

	return out
}
