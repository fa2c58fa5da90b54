// SPDX-License-Identifier: EPL-2.0

package classify

import (
	"math"
	"testing"

	"github.com/ik5/voxprofile/features"
)

// neutral returns a vector whose formant and centroid cues add nothing to
// the gender score.
func neutral(pitchMedian float64) features.Vector {
	v := features.Defaults()
	v.PitchMedian = pitchMedian
	v.FormantF1Mean = 550
	v.FormantF2Mean = 1500
	v.SpectralCentroidMean = 2000
	v.SpectralFlatnessMean = 0.1
	v.PitchStd = 30

	return v
}

func TestClassify_Gender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		vector     func() features.Vector
		wantGender Gender
		wantConf   float64
		wantScore  float64
	}{
		{
			name: "deep voice with low formants and dark timbre",
			vector: func() features.Vector {
				v := neutral(100)
				v.FormantF1Mean, v.FormantF2Mean = 450, 1200
				v.SpectralCentroidMean = 1200
				return v
			},
			wantGender: Male, wantConf: 95, wantScore: -8.5,
		},
		{
			name: "high voice with high formants and bright timbre",
			vector: func() features.Vector {
				v := neutral(220)
				v.FormantF1Mean, v.FormantF2Mean = 700, 1800
				v.SpectralCentroidMean = 3000
				return v
			},
			wantGender: Female, wantConf: 95, wantScore: 8.5,
		},
		{
			name:       "tie-break at the pivot goes female",
			vector:     func() features.Vector { return neutral(165) },
			wantGender: Female, wantConf: 55, wantScore: 0,
		},
		{
			name:       "tie-break below the pivot goes male",
			vector:     func() features.Vector { return neutral(164.9) },
			wantGender: Male, wantConf: 55, wantScore: 0,
		},
		{
			name: "score at the margin is not decisive",
			vector: func() features.Vector {
				v := neutral(160)
				v.SpectralCentroidMean = 2600
				return v
			},
			wantGender: Male, wantConf: 55, wantScore: 1.5,
		},
		{
			name:       "mildly high pitch",
			vector:     func() features.Vector { return neutral(180) },
			wantGender: Female, wantConf: 76, wantScore: 2,
		},
		{
			name:       "mildly low pitch",
			vector:     func() features.Vector { return neutral(150) },
			wantGender: Male, wantConf: 76, wantScore: -2,
		},
		{
			name: "low formants need both below",
			vector: func() features.Vector {
				v := neutral(170)
				v.FormantF1Mean, v.FormantF2Mean = 450, 1500
				return v
			},
			wantGender: Female, wantConf: 55, wantScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Classify(tt.vector())
			if p.Gender != tt.wantGender {
				t.Errorf("Gender = %s, want %s", p.Gender, tt.wantGender)
			}
			if p.GenderConfidence != tt.wantConf {
				t.Errorf("GenderConfidence = %v, want %v", p.GenderConfidence, tt.wantConf)
			}
			if p.GenderScore != tt.wantScore {
				t.Errorf("GenderScore = %v, want %v", p.GenderScore, tt.wantScore)
			}
		})
	}
}

func TestClassify_Age(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		std      float64
		flatness float64
		want     AgeBracket
	}{
		{name: "varied and tonal", std: 30, flatness: 0.1, want: Young},
		{name: "stable pitch", std: 10, flatness: 0.1, want: Middle},
		{name: "breathy", std: 30, flatness: 0.5, want: Middle},
		{name: "stable and breathy", std: 10, flatness: 0.5, want: Senior},
		{name: "thresholds are strict", std: 15, flatness: 0.35, want: Young},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := neutral(150)
			v.PitchStd, v.SpectralFlatnessMean = tt.std, tt.flatness

			p := Classify(v)
			if p.Age != tt.want {
				t.Errorf("Age = %s, want %s", p.Age, tt.want)
			}
			if p.AgeConfidence != 70 {
				t.Errorf("AgeConfidence = %v, want 70", p.AgeConfidence)
			}
		})
	}
}

func TestClassify_Scores(t *testing.T) {
	t.Parallel()

	v := features.Defaults()
	v.PitchMean = 120
	v.SpectralCentroidMean = 1900
	v.ZCRMean = 0.05
	v.PitchStd = 20
	v.RMSMean = 0.05
	v.HarmonicToPercussiveRatio = 3
	v.PitchRange = 150

	want := Scores{
		Bass:           8,
		Treble:         3,
		Clarity:        5,
		Smoothness:     8,
		Power:          5,
		Warmth:         8,
		Richness:       6,
		PitchVariation: 3,
	}

	p := Classify(v)
	if p.Scores != want {
		t.Errorf("Scores = %+v, want %+v", p.Scores, want)
	}
	if q := p.AudioQuality(); q != 6 {
		t.Errorf("AudioQuality = %v, want 6", q)
	}
}

func TestClassify_ScoresClamp(t *testing.T) {
	t.Parallel()

	v := features.Defaults()
	v.PitchMean = 40
	v.SpectralCentroidMean = 500
	v.ZCRMean = 0.5
	v.PitchStd = 250
	v.RMSMean = -1
	v.HarmonicToPercussiveRatio = 1e9
	v.PitchRange = 0

	s := Classify(v).Scores
	for name, got := range map[string]float64{
		"bass": s.Bass, "treble": s.Treble, "clarity": s.Clarity, "smoothness": s.Smoothness,
		"power": s.Power, "warmth": s.Warmth, "richness": s.Richness, "pitch_variation": s.PitchVariation,
	} {
		if got < 0 || got > 10 {
			t.Errorf("%s = %v, want within [0, 10]", name, got)
		}
	}
	if s.Bass != 10 || s.Treble != 0 || s.Clarity != 10 || s.Smoothness != 0 || s.Richness != 10 {
		t.Errorf("unexpected clamping: %+v", s)
	}
	if s.Warmth != 6 {
		t.Errorf("Warmth = %v, want 6", s.Warmth)
	}
}

func TestClassify_OneDecimal(t *testing.T) {
	t.Parallel()

	v := neutral(150)
	v.PitchMean = 133.33
	v.ZCRMean = 0.04321
	v.RMSMean = 0.0789

	s := Classify(v).Scores
	for _, got := range []float64{s.Bass, s.Clarity, s.Power, s.Warmth} {
		if r := math.Round(got*10) / 10; r != got {
			t.Errorf("score %v has more than one decimal", got)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	t.Parallel()

	v := neutral(171.3)
	v.PitchMean, v.PitchRange, v.RMSMean = 168.2, 95.4, 0.031

	first := Classify(v)
	for range 10 {
		if got := Classify(v); got != first {
			t.Fatalf("Classify is not deterministic: %+v != %+v", got, first)
		}
	}
}

func TestClassify_DegenerateVector(t *testing.T) {
	t.Parallel()

	v := features.Vector{PitchMedian: math.NaN(), PitchStd: math.Inf(1)}
	p := Classify(v)
	if p.Gender != Male && p.Gender != Female {
		t.Errorf("Gender = %q, want a label", p.Gender)
	}
	if p.Age != Young && p.Age != Middle && p.Age != Senior {
		t.Errorf("Age = %q, want a label", p.Age)
	}
}

func TestClassify_CustomConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Gender.TieBreakPitch = 170

	if got := cfg.Classify(neutral(165)).Gender; got != Male {
		t.Errorf("Gender = %s, want male with a raised pivot", got)
	}
}

func TestEstimatedWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		duration float64
		want     int
	}{
		{duration: 0, want: 0},
		{duration: -3, want: 0},
		{duration: math.NaN(), want: 0},
		{duration: 3.9, want: 9},
		{duration: 4, want: 10},
		{duration: 60, want: 150},
	}

	for _, tt := range tests {
		if got := EstimatedWords(tt.duration); got != tt.want {
			t.Errorf("EstimatedWords(%v) = %d, want %d", tt.duration, got, tt.want)
		}
	}
}
