// SPDX-License-Identifier: EPL-2.0

package features

import (
	"encoding/json"
	"fmt"

	"github.com/ik5/voxprofile/utils"
)

// NumMFCC is the number of cepstral coefficient means in a Vector.
const NumMFCC = 13

// Fallback values used when a feature cannot be measured.
const (
	DefaultPitchMean   = 150.0
	DefaultPitchMedian = 150.0
	DefaultPitchStd    = 30.0
	DefaultPitchRange  = 100.0
	DefaultFormantF1   = 500.0
	DefaultFormantF2   = 1500.0
	// DefaultFlatness is the flatness of a silent spectrum.
	DefaultFlatness = 1.0
)

// Vector is the acoustic summary of one clip. Frequencies are in Hz,
// amplitudes are on the [-1, 1] sample scale and Duration is in seconds.
type Vector struct {
	PitchMean   float64 `json:"pitch_mean" msgpack:"pitch_mean"`
	PitchMedian float64 `json:"pitch_median" msgpack:"pitch_median"`
	PitchStd    float64 `json:"pitch_std" msgpack:"pitch_std"`
	PitchRange  float64 `json:"pitch_range" msgpack:"pitch_range"`

	FormantF1Mean float64 `json:"formant_f1_mean" msgpack:"formant_f1_mean"`
	FormantF2Mean float64 `json:"formant_f2_mean" msgpack:"formant_f2_mean"`

	MFCC [NumMFCC]float64 `json:"-" msgpack:"mfcc"`

	SpectralCentroidMean float64 `json:"spectral_centroid_mean" msgpack:"spectral_centroid_mean"`
	SpectralFlatnessMean float64 `json:"spectral_flatness_mean" msgpack:"spectral_flatness_mean"`
	ZCRMean              float64 `json:"zcr_mean" msgpack:"zcr_mean"`
	RMSMean              float64 `json:"rms_mean" msgpack:"rms_mean"`
	Tempo                float64 `json:"tempo" msgpack:"tempo"`

	HarmonicMean              float64 `json:"harmonic_mean" msgpack:"harmonic_mean"`
	PercussiveMean            float64 `json:"percussive_mean" msgpack:"percussive_mean"`
	HarmonicToPercussiveRatio float64 `json:"harmonic_to_percussive_ratio" msgpack:"harmonic_to_percussive_ratio"`

	Duration float64 `json:"duration" msgpack:"duration"`
}

// Defaults returns the Vector of an empty clip.
func Defaults() Vector {
	return Vector{
		PitchMean:            DefaultPitchMean,
		PitchMedian:          DefaultPitchMedian,
		PitchStd:             DefaultPitchStd,
		PitchRange:           DefaultPitchRange,
		FormantF1Mean:        DefaultFormantF1,
		FormantF2Mean:        DefaultFormantF2,
		SpectralFlatnessMean: DefaultFlatness,
	}
}

// Sanitize replaces every NaN or infinite field with its default.
func (v Vector) Sanitize() Vector {
	d := Defaults()

	v.PitchMean = utils.OrDefault(v.PitchMean, d.PitchMean)
	v.PitchMedian = utils.OrDefault(v.PitchMedian, d.PitchMedian)
	v.PitchStd = utils.OrDefault(v.PitchStd, d.PitchStd)
	v.PitchRange = utils.OrDefault(v.PitchRange, d.PitchRange)
	v.FormantF1Mean = utils.OrDefault(v.FormantF1Mean, d.FormantF1Mean)
	v.FormantF2Mean = utils.OrDefault(v.FormantF2Mean, d.FormantF2Mean)
	for i := range v.MFCC {
		v.MFCC[i] = utils.OrDefault(v.MFCC[i], 0)
	}
	v.SpectralCentroidMean = utils.OrDefault(v.SpectralCentroidMean, 0)
	v.SpectralFlatnessMean = utils.OrDefault(v.SpectralFlatnessMean, d.SpectralFlatnessMean)
	v.ZCRMean = utils.OrDefault(v.ZCRMean, 0)
	v.RMSMean = utils.OrDefault(v.RMSMean, 0)
	v.Tempo = utils.OrDefault(v.Tempo, 0)
	v.HarmonicMean = utils.OrDefault(v.HarmonicMean, 0)
	v.PercussiveMean = utils.OrDefault(v.PercussiveMean, 0)
	v.HarmonicToPercussiveRatio = utils.OrDefault(v.HarmonicToPercussiveRatio, 0)
	v.Duration = utils.OrDefault(v.Duration, 0)

	return v
}

// Map flattens the vector into named features, using mfcc_1_mean through
// mfcc_13_mean for the cepstral means.
func (v Vector) Map() map[string]float64 {
	m := map[string]float64{
		"pitch_mean":                   v.PitchMean,
		"pitch_median":                 v.PitchMedian,
		"pitch_std":                    v.PitchStd,
		"pitch_range":                  v.PitchRange,
		"formant_f1_mean":              v.FormantF1Mean,
		"formant_f2_mean":              v.FormantF2Mean,
		"spectral_centroid_mean":       v.SpectralCentroidMean,
		"spectral_flatness_mean":       v.SpectralFlatnessMean,
		"zcr_mean":                     v.ZCRMean,
		"rms_mean":                     v.RMSMean,
		"tempo":                        v.Tempo,
		"harmonic_mean":                v.HarmonicMean,
		"percussive_mean":              v.PercussiveMean,
		"harmonic_to_percussive_ratio": v.HarmonicToPercussiveRatio,
		"duration":                     v.Duration,
	}
	for i, c := range v.MFCC {
		m[fmt.Sprintf("mfcc_%d_mean", i+1)] = c
	}

	return m
}

func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Map())
}

func (v *Vector) UnmarshalJSON(data []byte) error {
	type plain Vector

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for i := range p.MFCC {
		p.MFCC[i] = m[fmt.Sprintf("mfcc_%d_mean", i+1)]
	}

	*v = Vector(p)

	return nil
}
