// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// YIN is the cumulative-mean-normalised difference pitch estimator.
//
// Each centred frame of FrameLength samples is compared against itself
// over a FrameLength/2 integration window. The first lag whose normalised
// difference drops below Threshold (followed down to its local minimum)
// is taken as the period; when none does, the global minimum in range is
// used. Frames whose RMS is below MinRMS carry no pitch and are skipped.
type YIN struct {
	FrameLength int
	Hop         int
	Threshold   float64
	MinRMS      float64
}

// NewYIN returns an estimator with 2048-sample frames, a 512-sample hop,
// threshold 0.1 and an energy gate of 1e-3.
func NewYIN() YIN {
	return YIN{FrameLength: DefaultNFFT, Hop: DefaultHop, Threshold: 0.1, MinRMS: 1e-3}
}

// Track returns one frequency per voiced frame.
func (y YIN) Track(x []float64, sampleRate int, fmin, fmax float64) []float64 {
	frames := FrameCount(len(x), y.Hop)
	if frames == 0 || sampleRate <= 0 || fmin <= 0 || fmax <= fmin {
		return nil
	}

	size := y.FrameLength
	win := size / 2
	sr := float64(sampleRate)
	tauMin := max(1, int(math.Floor(sr/fmax)))
	tauMax := min(int(math.Ceil(sr/fmin)), size-win-1)
	if tauMin >= tauMax {
		return nil
	}

	n := nextPow2(size + win)
	fft := fourier.NewFFT(n)
	a := make([]float64, n)
	b := make([]float64, n)
	corr := make([]float64, n)
	prod := make([]complex128, n/2+1)
	sq := make([]float64, size+1)
	diff := make([]float64, tauMax+1)
	cmnd := make([]float64, tauMax+1)

	var ca, cb []complex128
	pad := size / 2

	var out []float64
	for t := range frames {
		start := t*y.Hop - pad
		energy := 0.0
		for i := range size {
			j := start + i
			v := 0.0
			if j >= 0 && j < len(x) {
				v = x[j]
			}
			b[i] = v
			sq[i+1] = sq[i] + v*v
			energy += v * v
		}
		if math.Sqrt(energy/float64(size)) < y.MinRMS {
			continue
		}

		copy(a, b[:win])
		clear(a[win:])

		ca = fft.Coefficients(ca, a)
		cb = fft.Coefficients(cb, b)
		for k := range prod {
			prod[k] = cmplx.Conj(ca[k]) * cb[k]
		}
		corr = fft.Sequence(corr, prod)

		e0 := sq[win]
		running := 0.0
		cmnd[0] = 1
		for tau := 1; tau <= tauMax; tau++ {
			d := e0 + sq[tau+win] - sq[tau] - 2*corr[tau]/float64(n)
			diff[tau] = max(d, 0)
			running += diff[tau]
			if running > tiny {
				cmnd[tau] = diff[tau] * float64(tau) / running
			} else {
				cmnd[tau] = 1
			}
		}

		period := pickPeriod(cmnd, tauMin, tauMax, y.Threshold)
		if period <= 0 {
			continue
		}

		if f0 := sr / period; f0 >= fmin && f0 <= fmax {
			out = append(out, f0)
		}
	}

	return out
}

// pickPeriod chooses the period lag from a normalised difference function
// and refines it by parabolic interpolation.
func pickPeriod(cmnd []float64, tauMin, tauMax int, threshold float64) float64 {
	tau := -1
	for i := tauMin; i <= tauMax; i++ {
		if cmnd[i] < threshold {
			for i < tauMax && cmnd[i+1] < cmnd[i] {
				i++
			}
			tau = i

			break
		}
	}

	if tau < 0 {
		tau = tauMin
		for i := tauMin + 1; i <= tauMax; i++ {
			if cmnd[i] < cmnd[tau] {
				tau = i
			}
		}
	}

	period := float64(tau)
	if tau > tauMin && tau < tauMax {
		l, c, r := cmnd[tau-1], cmnd[tau], cmnd[tau+1]
		if denom := l - 2*c + r; math.Abs(denom) > tiny {
			shift := 0.5 * (l - r) / denom
			if math.Abs(shift) <= 1 {
				period += shift
			}
		}
	}

	return period
}
