// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// BeatTracker estimates a global tempo from the autocorrelation of an
// onset-strength envelope, weighted by a log-normal prior over BPM.
type BeatTracker struct {
	Mel Mel
	// StartBPM is the centre of the tempo prior and StdBPM its width in
	// octaves.
	StartBPM float64
	StdBPM   float64
	MaxBPM   float64
	// MaxLag bounds the autocorrelation, in frames.
	MaxLag int
}

func NewBeatTracker() BeatTracker {
	return BeatTracker{Mel: NewMel(), StartBPM: 120, StdBPM: 1, MaxBPM: 320, MaxLag: 384}
}

// OnsetEnvelope returns the mean positive spectral flux of the decibel
// mel spectrogram, one value per frame, aligned to frame centres.
func (b BeatTracker) OnsetEnvelope(x []float64, sampleRate int) []float64 {
	db := b.Mel.DecibelSpectrogram(x, sampleRate)
	env := make([]float64, len(db))
	lead := 1 + b.Mel.NFFT/(2*b.Mel.Hop)

	for t := 1; t < len(db); t++ {
		flux := 0.0
		for i, v := range db[t] {
			flux += max(0, v-db[t-1][i])
		}
		if j := t - 1 + lead; j < len(env) {
			env[j] = flux / float64(len(db[t]))
		}
	}

	return env
}

// Tempo returns the estimated tempo in BPM, or 0 when x has no onsets.
func (b BeatTracker) Tempo(x []float64, sampleRate int) float64 {
	env := b.OnsetEnvelope(x, sampleRate)
	if len(env) < 2 || floats.Max(env) <= 0 {
		return 0
	}

	ac := autocorrelate(env, min(b.MaxLag, len(env)))
	if ac[0] <= 0 {
		return 0
	}

	framesPerMinute := 60 * float64(sampleRate) / float64(b.Mel.Hop)
	best, bestScore := 0.0, math.Inf(-1)
	for lag := 1; lag < len(ac); lag++ {
		bpm := framesPerMinute / float64(lag)
		if bpm > b.MaxBPM {
			continue
		}

		prior := (math.Log2(bpm) - math.Log2(b.StartBPM)) / b.StdBPM
		score := math.Log1p(1e6*ac[lag]/ac[0]) - 0.5*prior*prior
		if score > bestScore {
			best, bestScore = bpm, score
		}
	}

	return best
}

// autocorrelate returns the first maxLag lags of the linear
// autocorrelation of x.
func autocorrelate(x []float64, maxLag int) []float64 {
	n := nextPow2(2 * len(x))
	fft := fourier.NewFFT(n)

	buf := make([]float64, n)
	copy(buf, x)

	coeff := fft.Coefficients(nil, buf)
	for k, c := range coeff {
		coeff[k] = complex(cmplx.Abs(c)*cmplx.Abs(c), 0)
	}

	seq := fft.Sequence(nil, coeff)
	out := make([]float64, maxLag)
	for i := range out {
		out[i] = seq[i] / float64(n)
	}

	return out
}
