// SPDX-License-Identifier: EPL-2.0

package classify

import (
	"math"

	"github.com/ik5/voxprofile/features"
	"github.com/ik5/voxprofile/utils"
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

type AgeBracket string

const (
	Young  AgeBracket = "young"
	Middle AgeBracket = "middle"
	Senior AgeBracket = "senior"
)

// Scores are the eight 0..10 voice scores, each at one decimal.
type Scores struct {
	Bass           float64 `json:"bass" msgpack:"bass"`
	Treble         float64 `json:"treble" msgpack:"treble"`
	Clarity        float64 `json:"clarity" msgpack:"clarity"`
	Smoothness     float64 `json:"smoothness" msgpack:"smoothness"`
	Power          float64 `json:"power" msgpack:"power"`
	Warmth         float64 `json:"warmth" msgpack:"warmth"`
	Richness       float64 `json:"richness" msgpack:"richness"`
	PitchVariation float64 `json:"pitch_variation" msgpack:"pitch_variation"`
}

// Profile is the classification of one clip. GenderScore and AgeScore are
// the raw rule sums behind the labels.
type Profile struct {
	Gender           Gender     `json:"gender" msgpack:"gender"`
	GenderConfidence float64    `json:"gender_confidence" msgpack:"gender_confidence"`
	GenderScore      float64    `json:"gender_score" msgpack:"gender_score"`
	Age              AgeBracket `json:"age_category" msgpack:"age_category"`
	AgeConfidence    float64    `json:"age_confidence" msgpack:"age_confidence"`
	AgeScore         float64    `json:"age_score" msgpack:"age_score"`
	Scores           Scores     `json:"voice_scores" msgpack:"voice_scores"`
}

// AudioQuality is the mean of clarity, smoothness, power and richness at
// one decimal.
func (p Profile) AudioQuality() float64 {
	s := p.Scores
	return utils.Round1((s.Clarity + s.Smoothness + s.Power + s.Richness) / 4)
}

const wordsPerSecond = 2.5

// EstimatedWords approximates the number of words spoken in a clip of the
// given duration in seconds.
func EstimatedWords(duration float64) int {
	if !utils.Finite(duration) || duration <= 0 {
		return 0
	}

	return int(duration * wordsPerSecond)
}

// Classify applies DefaultConfig.
func Classify(v features.Vector) Profile {
	return DefaultConfig().Classify(v)
}

func (c Config) Classify(v features.Vector) Profile {
	v = v.Sanitize()

	p := Profile{Scores: c.scores(v)}
	p.GenderScore = c.genderScore(v)
	p.Gender, p.GenderConfidence = c.gender(p.GenderScore, v.PitchMedian)
	p.AgeScore = c.ageScore(v)
	p.Age = c.ageBracket(p.AgeScore)
	p.AgeConfidence = c.Age.Confidence

	return p
}

func (c Config) genderScore(v features.Vector) float64 {
	g := c.Gender

	score := g.AbovePitchScore
	for _, band := range g.PitchBands {
		if v.PitchMedian < band.Below {
			score = band.Score
			break
		}
	}

	f1, f2 := v.FormantF1Mean, v.FormantF2Mean
	switch {
	case f1 < g.LowFormants.F1 && f2 < g.LowFormants.F2:
		score += g.LowFormants.Score
	case f1 > g.HighFormants.F1 && f2 > g.HighFormants.F2:
		score += g.HighFormants.Score
	}

	switch {
	case v.SpectralCentroidMean < g.LowCentroid:
		score += g.LowCentroidScore
	case v.SpectralCentroidMean > g.HighCentroid:
		score += g.HighCentroidScore
	}

	return score
}

func (c Config) gender(score, pitchMedian float64) (Gender, float64) {
	g := c.Gender
	confidence := math.Min(g.MaxConfidence, g.BaseConfidence+math.Abs(score)*g.ConfidenceSlope)

	switch {
	case score < -g.DecisionMargin:
		return Male, confidence
	case score > g.DecisionMargin:
		return Female, confidence
	case pitchMedian < g.TieBreakPitch:
		return Male, g.TieConfidence
	default:
		return Female, g.TieConfidence
	}
}

func (c Config) ageScore(v features.Vector) float64 {
	a := c.Age

	score := 0.0
	if v.PitchStd < a.StablePitchStd {
		score += a.StablePitchScore
	}
	if v.SpectralFlatnessMean > a.BreathyFlatness {
		score += a.BreathyScore
	}

	return score
}

func (c Config) ageBracket(score float64) AgeBracket {
	switch {
	case score <= c.Age.YoungMax:
		return Young
	case score <= c.Age.MiddleMax:
		return Middle
	default:
		return Senior
	}
}

func (c Config) scores(v features.Vector) Scores {
	r := c.Scores
	score := func(x float64) float64 {
		return utils.Round1(utils.Clamp(x, 0, r.Max))
	}

	s := Scores{
		Bass:           score(r.Max - (v.PitchMean-r.BassReference)/r.BassDivisor),
		Treble:         score((v.SpectralCentroidMean - r.TrebleReference) / r.TrebleDivisor),
		Clarity:        score(v.ZCRMean * r.ClarityGain),
		Smoothness:     score(r.Max - v.PitchStd/r.SmoothnessDiv),
		Power:          score(v.RMSMean * r.PowerGain),
		Richness:       score(v.HarmonicToPercussiveRatio * r.RichnessGain),
		PitchVariation: score(v.PitchRange / r.VariationDiv),
	}
	// warmth blends the already rounded bass and smoothness
	s.Warmth = utils.Round1(s.Bass*r.WarmthBass + s.Smoothness*r.WarmthSmooth)

	return s
}
