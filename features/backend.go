// SPDX-License-Identifier: EPL-2.0

package features

import "github.com/ik5/voxprofile/dsp"

// PitchTracker estimates fundamental frequencies in [fmin, fmax], one
// value per frame that carries a usable estimate.
type PitchTracker interface {
	Track(samples []float64, sampleRate int, fmin, fmax float64) []float64
}

// PeakPicker returns the frequencies of the perFrame strongest spectral
// bins of up to maxFrames leading frames.
type PeakPicker interface {
	Peaks(samples []float64, sampleRate, maxFrames, perFrame int) []float64
}

// CepstralAnalyzer computes n cepstral coefficients per frame, returned
// coefficient-major.
type CepstralAnalyzer interface {
	MFCC(samples []float64, sampleRate, n int) [][]float64
}

// Spectrum computes frame-wise spectral and energy descriptors.
type Spectrum interface {
	Centroid(samples []float64, sampleRate int) []float64
	Flatness(samples []float64) []float64
	ZeroCrossingRate(samples []float64) []float64
	RMS(samples []float64) []float64
}

// Decomposer splits a signal into harmonic and percussive parts of the
// same length.
type Decomposer interface {
	Separate(samples []float64) (harmonic, percussive []float64)
}

// TempoEstimator returns a global tempo in BPM, or 0 without onsets.
type TempoEstimator interface {
	Tempo(samples []float64, sampleRate int) float64
}

// Backend bundles the capabilities used by an Extractor. Primary and
// Secondary are the two pitch passes.
type Backend struct {
	Primary    PitchTracker
	Secondary  PitchTracker
	Peaks      PeakPicker
	Spectrum   Spectrum
	Cepstrum   CepstralAnalyzer
	Decomposer Decomposer
	Tempo      TempoEstimator
}

// DefaultBackend wires the dsp implementations: a spectral peak tracker
// as the primary pitch pass and YIN as the secondary one.
func DefaultBackend() Backend {
	spectral := dsp.NewSpectral()

	return Backend{
		Primary:    dsp.NewPeakTracker(),
		Secondary:  dsp.NewYIN(),
		Peaks:      spectral,
		Spectrum:   spectral,
		Cepstrum:   dsp.NewMel(),
		Decomposer: dsp.NewHPSS(),
		Tempo:      dsp.NewBeatTracker(),
	}
}
