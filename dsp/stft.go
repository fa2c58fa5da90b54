// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Default framing parameters.
const (
	DefaultNFFT = 2048
	DefaultHop  = 512
)

// tiny guards divisions by window normalisation sums and spectral energy.
const tiny = 1e-10

// Hann returns a periodic Hann window of length n.
func Hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}

	return w
}

// Frequencies returns the centre frequency in Hz of every bin of an
// nfft-point real transform.
func Frequencies(sampleRate, nfft int) []float64 {
	f := make([]float64, nfft/2+1)
	for k := range f {
		f[k] = float64(k) * float64(sampleRate) / float64(nfft)
	}

	return f
}

// FrameCount returns the number of centred frames for n samples.
func FrameCount(n, hop int) int {
	if n <= 0 || hop <= 0 {
		return 0
	}

	return 1 + n/hop
}

// STFT computes the centred short-time Fourier transform of x with a Hann
// window and zero padding. The result is frame-major: out[t][k] is bin k
// of frame t, with nfft/2+1 bins per frame.
func STFT(x []float64, nfft, hop int) [][]complex128 {
	frames := FrameCount(len(x), hop)
	if frames == 0 || nfft < 2 {
		return nil
	}

	fft := fourier.NewFFT(nfft)
	win := Hann(nfft)
	buf := make([]float64, nfft)
	pad := nfft / 2

	out := make([][]complex128, frames)
	for t := range out {
		start := t*hop - pad
		for i := range buf {
			j := start + i
			v := 0.0
			if j >= 0 && j < len(x) {
				v = x[j]
			}
			buf[i] = v * win[i]
		}
		out[t] = fft.Coefficients(nil, buf)
	}

	return out
}

// Magnitude returns |X| for every bin of a frame-major spectrogram.
func Magnitude(frames [][]complex128) [][]float64 {
	out := make([][]float64, len(frames))
	for t, frame := range frames {
		row := make([]float64, len(frame))
		for k, c := range frame {
			row[k] = cmplx.Abs(c)
		}
		out[t] = row
	}

	return out
}

// Power squares a magnitude spectrogram in place and returns it.
func Power(mag [][]float64) [][]float64 {
	for _, row := range mag {
		for k, v := range row {
			row[k] = v * v
		}
	}

	return mag
}

// ISTFT inverts STFT by windowed overlap-add and returns exactly length
// samples. Frames must have nfft/2+1 bins.
func ISTFT(frames [][]complex128, nfft, hop, length int) []float64 {
	out := make([]float64, max(length, 0))
	if len(frames) == 0 || length <= 0 {
		return out
	}

	fft := fourier.NewFFT(nfft)
	win := Hann(nfft)
	total := nfft + hop*(len(frames)-1)
	acc := make([]float64, total)
	norm := make([]float64, total)
	seq := make([]float64, nfft)
	scale := 1 / float64(nfft)

	for t, coeff := range frames {
		seq = fft.Sequence(seq, coeff)
		off := t * hop
		for i, v := range seq {
			acc[off+i] += v * scale * win[i]
			norm[off+i] += win[i] * win[i]
		}
	}

	pad := nfft / 2
	for i := range out {
		j := i + pad
		if j >= total {
			break
		}
		if norm[j] > tiny {
			out[i] = acc[j] / norm[j]
		}
	}

	return out
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
