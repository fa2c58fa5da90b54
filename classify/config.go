// SPDX-License-Identifier: EPL-2.0

package classify

// PitchBand adds Score to the gender score when the pitch median is below
// Below Hz. Bands are checked in order; the first match wins.
type PitchBand struct {
	Below float64
	Score float64
}

// FormantRule adds Score when both formant means are on its side of the
// thresholds: below them for Low, above them for High.
type FormantRule struct {
	F1    float64
	F2    float64
	Score float64
}

// GenderRules configures the gender estimate.
type GenderRules struct {
	PitchBands []PitchBand
	// AbovePitchScore applies when no pitch band matched.
	AbovePitchScore float64

	LowFormants  FormantRule
	HighFormants FormantRule

	LowCentroid       float64
	LowCentroidScore  float64
	HighCentroid      float64
	HighCentroidScore float64

	// Scores strictly beyond ±DecisionMargin are decisive.
	DecisionMargin float64
	// TieBreakPitch splits undecided voices: a median below it is male.
	TieBreakPitch float64

	TieConfidence   float64
	BaseConfidence  float64
	ConfidenceSlope float64
	MaxConfidence   float64
}

// AgeRules configures the age bracket estimate.
type AgeRules struct {
	StablePitchStd   float64
	StablePitchScore float64
	BreathyFlatness  float64
	BreathyScore     float64

	YoungMax  float64
	MiddleMax float64

	Confidence float64
}

// ScoreRules holds the linear maps behind the voice scores.
type ScoreRules struct {
	Max float64

	BassReference   float64
	BassDivisor     float64
	TrebleReference float64
	TrebleDivisor   float64
	ClarityGain     float64
	SmoothnessDiv   float64
	PowerGain       float64
	WarmthBass      float64
	WarmthSmooth    float64
	RichnessGain    float64
	VariationDiv    float64
}

// Config is the full rule table.
type Config struct {
	Gender GenderRules
	Age    AgeRules
	Scores ScoreRules
}

func DefaultConfig() Config {
	return Config{
		Gender: GenderRules{
			PitchBands: []PitchBand{
				{Below: 140, Score: -4},
				{Below: 155, Score: -2},
				{Below: 175, Score: 0},
				{Below: 200, Score: 2},
			},
			AbovePitchScore:   4,
			LowFormants:       FormantRule{F1: 520, F2: 1400, Score: -3},
			HighFormants:      FormantRule{F1: 620, F2: 1700, Score: 3},
			LowCentroid:       1500,
			LowCentroidScore:  -1.5,
			HighCentroid:      2500,
			HighCentroidScore: 1.5,
			DecisionMargin:    1.5,
			TieBreakPitch:     165,
			TieConfidence:     55,
			BaseConfidence:    60,
			ConfidenceSlope:   8,
			MaxConfidence:     95,
		},
		Age: AgeRules{
			StablePitchStd:   15,
			StablePitchScore: 2,
			BreathyFlatness:  0.35,
			BreathyScore:     2,
			YoungMax:         0,
			MiddleMax:        2,
			Confidence:       70,
		},
		Scores: ScoreRules{
			Max:             10,
			BassReference:   80,
			BassDivisor:     20,
			TrebleReference: 1000,
			TrebleDivisor:   300,
			ClarityGain:     100,
			SmoothnessDiv:   10,
			PowerGain:       100,
			WarmthBass:      0.6,
			WarmthSmooth:    0.4,
			RichnessGain:    2,
			VariationDiv:    50,
		},
	}
}
