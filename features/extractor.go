// SPDX-License-Identifier: EPL-2.0

package features

import (
	"sync"

	"github.com/ik5/voxprofile/dsp"
)

// Band is an open frequency interval (Low, High) in Hz.
type Band struct {
	Low  float64
	High float64
}

// Contains reports whether Low < f < High.
func (b Band) Contains(f float64) bool {
	return f > b.Low && f < b.High
}

// Config holds the extraction parameters.
type Config struct {
	MinPitch float64
	MaxPitch float64
	// SecondaryWeight is how many times each observation of the
	// secondary pitch pass is counted.
	SecondaryWeight int

	FormantFrames int
	FormantPeaks  int
	F1Band        Band
	F2Band        Band

	// RatioEpsilon keeps the harmonic-to-percussive ratio finite.
	RatioEpsilon float64
}

func DefaultConfig() Config {
	return Config{
		MinPitch:        50,
		MaxPitch:        400,
		SecondaryWeight: 2,
		FormantFrames:   100,
		FormantPeaks:    5,
		F1Band:          Band{Low: 200, High: 1200},
		F2Band:          Band{Low: 800, High: 3500},
		RatioEpsilon:    1e-6,
	}
}

// Extractor computes feature vectors. It holds no mutable state and is
// safe for concurrent use.
type Extractor struct {
	cfg     Config
	backend Backend
}

func NewExtractor(cfg Config, backend Backend) *Extractor {
	return &Extractor{cfg: cfg, backend: backend}
}

var defaultExtractor = NewExtractor(DefaultConfig(), DefaultBackend())

// Extract runs the default extractor.
func Extract(samples []float64, sampleRate int) Vector {
	return defaultExtractor.Extract(samples, sampleRate)
}

// Extract measures samples, a mono buffer at sampleRate Hz. The result is
// always sanitized.
func (e *Extractor) Extract(samples []float64, sampleRate int) Vector {
	if len(samples) == 0 || sampleRate <= 0 {
		return Defaults()
	}

	v := Defaults()
	v.Duration = float64(len(samples)) / float64(sampleRate)

	var wg sync.WaitGroup
	wg.Go(func() { e.pitch(&v, samples, sampleRate) })
	wg.Go(func() { e.formants(&v, samples, sampleRate) })
	wg.Go(func() { e.timbre(&v, samples, sampleRate) })
	wg.Go(func() { e.spectral(&v, samples, sampleRate) })
	wg.Go(func() { v.Tempo = e.backend.Tempo.Tempo(samples, sampleRate) })
	wg.Go(func() { e.balance(&v, samples) })
	wg.Wait()

	return v.Sanitize()
}

func (e *Extractor) pitch(v *Vector, samples []float64, sampleRate int) {
	primary := e.backend.Primary.Track(samples, sampleRate, e.cfg.MinPitch, e.cfg.MaxPitch)
	secondary := e.backend.Secondary.Track(samples, sampleRate, e.cfg.MinPitch, e.cfg.MaxPitch)

	weight := max(e.cfg.SecondaryWeight, 0)
	observed := make([]float64, 0, len(primary)+len(secondary)*weight)
	observed = append(observed, primary...)
	for range weight {
		observed = append(observed, secondary...)
	}

	kept := dsp.IQRFilter(observed)
	if len(kept) == 0 {
		return
	}

	v.PitchMean = dsp.Mean(kept)
	v.PitchMedian = dsp.Median(kept)
	v.PitchStd = dsp.PopStd(kept)
	v.PitchRange = dsp.Span(kept)
}

func (e *Extractor) formants(v *Vector, samples []float64, sampleRate int) {
	peaks := e.backend.Peaks.Peaks(samples, sampleRate, e.cfg.FormantFrames, e.cfg.FormantPeaks)

	var f1, f2 []float64
	for _, f := range peaks {
		if e.cfg.F1Band.Contains(f) {
			f1 = append(f1, f)
		}
		if e.cfg.F2Band.Contains(f) {
			f2 = append(f2, f)
		}
	}

	if len(f1) > 0 {
		v.FormantF1Mean = dsp.Mean(f1)
	}
	if len(f2) > 0 {
		v.FormantF2Mean = dsp.Mean(f2)
	}
}

func (e *Extractor) timbre(v *Vector, samples []float64, sampleRate int) {
	coeffs := e.backend.Cepstrum.MFCC(samples, sampleRate, NumMFCC)
	for i := range min(len(coeffs), NumMFCC) {
		v.MFCC[i] = dsp.Mean(coeffs[i])
	}
}

func (e *Extractor) spectral(v *Vector, samples []float64, sampleRate int) {
	s := e.backend.Spectrum

	v.SpectralCentroidMean = dsp.Mean(s.Centroid(samples, sampleRate))
	if flat := s.Flatness(samples); len(flat) > 0 {
		v.SpectralFlatnessMean = dsp.Mean(flat)
	}
	v.ZCRMean = dsp.Mean(s.ZeroCrossingRate(samples))
	v.RMSMean = dsp.Mean(s.RMS(samples))
}

func (e *Extractor) balance(v *Vector, samples []float64) {
	harmonic, percussive := e.backend.Decomposer.Separate(samples)

	v.HarmonicMean = dsp.MeanAbs(harmonic)
	v.PercussiveMean = dsp.MeanAbs(percussive)
	v.HarmonicToPercussiveRatio = v.HarmonicMean / (v.PercussiveMean + e.cfg.RatioEpsilon)
}
