// SPDX-License-Identifier: EPL-2.0

package quality

import (
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyser defaults, matching a browser AnalyserNode.
const (
	DefaultFFTSize   = 2048
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// Tap exposes the most recent captured samples, normalized to [-1, 1].
type Tap interface {
	Tail(n int) []float64
}

// Analyser turns the newest samples of a Tap into byte-frequency
// snapshots: Blackman window, magnitude spectrum, exponential smoothing
// over time and a dB range mapped onto 0..255.
type Analyser struct {
	tap       Tap
	size      int
	smoothing float64
	minDB     float64
	maxDB     float64

	mu       sync.Mutex
	fft      *fourier.FFT
	window   []float64
	frame    []float64
	coeff    []complex128
	smoothed []float64
}

// NewAnalyser creates an analyser with the default parameters.
func NewAnalyser(tap Tap) *Analyser {
	return NewAnalyserSize(tap, DefaultFFTSize)
}

// NewAnalyserSize creates an analyser with a custom FFT size (power of two
// recommended; values below 32 are raised to 32).
func NewAnalyserSize(tap Tap, size int) *Analyser {
	size = max(size, 32)

	return &Analyser{
		tap:       tap,
		size:      size,
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
		fft:       fourier.NewFFT(size),
		window:    blackman(size),
		frame:     make([]float64, size),
		smoothed:  make([]float64, size/2),
	}
}

// BinCount is the number of bins in each snapshot.
func (a *Analyser) BinCount() int { return a.size / 2 }

func (a *Analyser) ByteFrequencyData(dst []uint8) []uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()

	bins := a.size / 2
	if cap(dst) < bins {
		dst = make([]uint8, bins)
	}
	dst = dst[:bins]

	recent := a.tap.Tail(a.size)
	offset := a.size - len(recent)
	for i := range a.frame {
		v := 0.0
		if i >= offset {
			v = recent[i-offset]
		}
		a.frame[i] = v * a.window[i]
	}

	a.coeff = a.fft.Coefficients(a.coeff, a.frame)

	span := a.maxDB - a.minDB
	for k := range bins {
		mag := cmplx.Abs(a.coeff[k]) / float64(a.size)
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag

		db := math.Inf(-1)
		if a.smoothed[k] > 0 {
			db = 20 * math.Log10(a.smoothed[k])
		}

		v := math.Floor(255 / span * (db - a.minDB))
		switch {
		case math.IsNaN(v) || v < 0:
			dst[k] = 0
		case v > 255:
			dst[k] = 255
		default:
			dst[k] = uint8(v)
		}
	}

	return dst
}

func blackman(n int) []float64 {
	const alpha = 0.16
	a0, a1, a2 := (1-alpha)/2, 0.5, alpha/2

	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}

	return w
}
