// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Mel builds mel spectrograms and mel-frequency cepstral coefficients.
// Filters follow the Slaney mel scale with area normalisation; decibel
// conversion uses a power reference of 1, an Amin floor and a TopDB
// dynamic range.
type Mel struct {
	NFFT  int
	Hop   int
	Bands int
	Amin  float64
	TopDB float64
}

func NewMel() Mel {
	return Mel{NFFT: DefaultNFFT, Hop: DefaultHop, Bands: 128, Amin: 1e-10, TopDB: 80}
}

const (
	melLinearStep = 200.0 / 3
	melLogHz      = 1000.0
	melLogStart   = melLogHz / melLinearStep
)

var melLogStep = math.Log(6.4) / 27

// HzToMel converts a frequency to the Slaney mel scale.
func HzToMel(hz float64) float64 {
	if hz < melLogHz {
		return hz / melLinearStep
	}

	return melLogStart + math.Log(hz/melLogHz)/melLogStep
}

// MelToHz is the inverse of HzToMel.
func MelToHz(mel float64) float64 {
	if mel < melLogStart {
		return mel * melLinearStep
	}

	return melLogHz * math.Exp(melLogStep*(mel-melLogStart))
}

// Filterbank returns Bands triangular filters spanning 0..sampleRate/2,
// each with NFFT/2+1 weights.
func (m Mel) Filterbank(sampleRate int) [][]float64 {
	freqs := Frequencies(sampleRate, m.NFFT)

	lo, hi := HzToMel(0), HzToMel(float64(sampleRate)/2)
	edges := make([]float64, m.Bands+2)
	for i := range edges {
		edges[i] = MelToHz(lo + (hi-lo)*float64(i)/float64(m.Bands+1))
	}

	bank := make([][]float64, m.Bands)
	for b := range bank {
		left, centre, right := edges[b], edges[b+1], edges[b+2]
		norm := 2 / (right - left)

		w := make([]float64, len(freqs))
		for k, f := range freqs {
			lower := (f - left) / (centre - left)
			upper := (right - f) / (right - centre)
			w[k] = max(0, min(lower, upper)) * norm
		}
		bank[b] = w
	}

	return bank
}

// Spectrogram returns the frame-major mel power spectrogram of x.
func (m Mel) Spectrogram(x []float64, sampleRate int) [][]float64 {
	power := Power(Magnitude(STFT(x, m.NFFT, m.Hop)))
	bank := m.Filterbank(sampleRate)

	out := make([][]float64, len(power))
	for t, frame := range power {
		row := make([]float64, m.Bands)
		for b, w := range bank {
			row[b] = floats.Dot(w, frame)
		}
		out[t] = row
	}

	return out
}

// PowerToDB converts a power spectrogram to decibels in place and clips
// everything more than topDB below the global peak.
func PowerToDB(s [][]float64, amin, topDB float64) [][]float64 {
	peak := math.Inf(-1)
	for _, row := range s {
		for i, v := range row {
			row[i] = 10 * math.Log10(max(v, amin))
			peak = max(peak, row[i])
		}
	}

	if topDB > 0 {
		floor := peak - topDB
		for _, row := range s {
			for i, v := range row {
				row[i] = max(v, floor)
			}
		}
	}

	return s
}

// DecibelSpectrogram is Spectrogram followed by PowerToDB.
func (m Mel) DecibelSpectrogram(x []float64, sampleRate int) [][]float64 {
	return PowerToDB(m.Spectrogram(x, sampleRate), m.Amin, m.TopDB)
}

// MFCC returns n cepstral coefficients per frame, coefficient-major:
// out[i][t] is coefficient i of frame t.
func (m Mel) MFCC(x []float64, sampleRate, n int) [][]float64 {
	db := m.DecibelSpectrogram(x, sampleRate)
	n = min(n, m.Bands)

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, len(db))
	}

	coeff := make([]float64, m.Bands)
	for t, row := range db {
		DCT2(coeff, row)
		for i := range n {
			out[i][t] = coeff[i]
		}
	}

	return out
}

// DCT2 writes the orthonormal type-II DCT of src into dst. Both slices
// must have the same length.
func DCT2(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	scale0 := math.Sqrt(1 / float64(n))
	scale := math.Sqrt(2 / float64(n))
	for k := range n {
		sum := 0.0
		for i, v := range src {
			sum += v * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n)))
		}
		if k == 0 {
			dst[k] = sum * scale0
		} else {
			dst[k] = sum * scale
		}
	}
}
