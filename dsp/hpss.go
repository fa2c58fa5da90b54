// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"slices"
)

// HPSS separates harmonic and percussive content by median filtering the
// magnitude spectrogram: across time for the harmonic estimate, across
// frequency for the percussive one. Soft masks derived from both
// estimates are applied to the complex spectrum before inversion.
type HPSS struct {
	NFFT   int
	Hop    int
	Kernel int
	Power  float64
}

func NewHPSS() HPSS {
	return HPSS{NFFT: DefaultNFFT, Hop: DefaultHop, Kernel: 31, Power: 2}
}

// Separate returns the harmonic and percussive signals, each as long as x.
func (h HPSS) Separate(x []float64) (harmonic, percussive []float64) {
	spec := STFT(x, h.NFFT, h.Hop)
	if len(spec) == 0 {
		return make([]float64, len(x)), make([]float64, len(x))
	}

	mag := Magnitude(spec)
	frames, bins := len(mag), len(mag[0])

	harm := make([][]float64, frames)
	perc := make([][]float64, frames)
	for t := range frames {
		harm[t] = make([]float64, bins)
		perc[t] = make([]float64, bins)
	}

	window := make([]float64, h.Kernel)
	line := make([]float64, frames)
	for k := range bins {
		for t := range frames {
			line[t] = mag[t][k]
		}
		for t := range frames {
			harm[t][k] = medianAt(line, t, window)
		}
	}
	for t := range frames {
		for k := range bins {
			perc[t][k] = medianAt(mag[t], k, window)
		}
	}

	hs := make([][]complex128, frames)
	ps := make([][]complex128, frames)
	for t := range frames {
		hs[t] = make([]complex128, bins)
		ps[t] = make([]complex128, bins)
		for k, c := range spec[t] {
			mh, mp := softMasks(harm[t][k], perc[t][k], h.Power)
			hs[t][k] = c * complex(mh, 0)
			ps[t][k] = c * complex(mp, 0)
		}
	}

	return ISTFT(hs, h.NFFT, h.Hop, len(x)), ISTFT(ps, h.NFFT, h.Hop, len(x))
}

// medianAt returns the median of the len(window) values of x centred on i,
// reflecting the signal at its edges.
func medianAt(x []float64, i int, window []float64) float64 {
	half := len(window) / 2
	for j := range window {
		window[j] = x[reflect(i+j-half, len(x))]
	}
	slices.Sort(window)

	return window[half]
}

// reflect maps an out-of-range index back into [0, n) by mirroring about
// the edges (d c b a | a b c d | d c b a).
func reflect(i, n int) int {
	if n == 1 {
		return 0
	}

	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}

	return i
}

// softMasks returns Wiener-style masks for the harmonic and percussive
// estimates. Where both are zero the masks are zero.
func softMasks(harm, perc, power float64) (float64, float64) {
	z := max(harm, perc)
	if z < math.SmallestNonzeroFloat64 {
		return 0, 0
	}

	mh := math.Pow(harm/z, power)
	mp := math.Pow(perc/z, power)
	sum := mh + mp

	return mh / sum, mp / sum
}
