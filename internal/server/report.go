// SPDX-License-Identifier: EPL-2.0

package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/voxprofile"
	"github.com/ik5/voxprofile/classify"
	"github.com/ik5/voxprofile/match"
	"github.com/ik5/voxprofile/progress"
	"github.com/ik5/voxprofile/utils"
)

// FeatureSummary is the part of the feature vector shown to users.
type FeatureSummary struct {
	PitchMean   float64 `json:"pitch_mean" msgpack:"pitch_mean"`
	PitchMedian float64 `json:"pitch_median" msgpack:"pitch_median"`
	PitchRange  float64 `json:"pitch_range" msgpack:"pitch_range"`
	Duration    float64 `json:"duration" msgpack:"duration"`
}

// Report is the user facing analysis of one clip: the voice match, the
// classification, and the progress it earned.
type Report struct {
	match.Result

	Gender           classify.Gender     `json:"gender" msgpack:"gender"`
	GenderConfidence float64             `json:"gender_confidence" msgpack:"gender_confidence"`
	Age              classify.AgeBracket `json:"age_category" msgpack:"age_category"`
	AudioQuality     float64             `json:"audio_quality" msgpack:"audio_quality"`
	EstimatedWords   int                 `json:"estimated_words" msgpack:"estimated_words"`
	Scores           classify.Scores     `json:"voice_scores" msgpack:"voice_scores"`
	Features         FeatureSummary      `json:"features" msgpack:"features"`

	NewAchievements []string       `json:"new_achievements" msgpack:"new_achievements"`
	Progress        progress.State `json:"session_data" msgpack:"session_data"`
}

// report matches the voice and books the outcome against userID. An empty
// userID yields the progress of a first-time user without storing it.
// words is the word count credited to the user.
//
// commit persists whatever earned the progress. It runs before the
// progress is stored, and its error leaves the user's progress unchanged.
func (s *Server) report(ctx context.Context, userID string, res voxprofile.Result, words int, at time.Time, commit func(Report) error) (Report, error) {
	p := res.Profile
	f := res.Features

	rep := Report{
		Gender:           p.Gender,
		GenderConfidence: utils.Round1(p.GenderConfidence),
		Age:              p.Age,
		AudioQuality:     res.AudioQuality,
		EstimatedWords:   res.EstimatedWords,
		Scores:           p.Scores,
		Features: FeatureSummary{
			PitchMean:   utils.Round1(f.PitchMean),
			PitchMedian: utils.Round1(f.PitchMedian),
			PitchRange:  utils.Round1(f.PitchRange),
			Duration:    utils.Round1(f.Duration),
		},
	}

	matched, matchErr := match.Resolve(ctx, s.matcher, match.Request{
		Gender:     p.Gender,
		Age:        p.Age,
		Scores:     p.Scores,
		PitchMean:  f.PitchMean,
		PitchRange: f.PitchRange,
	})
	if matchErr != nil {
		s.log.Warn("voice match failed, using fallback", zap.Error(matchErr))
	}
	rep.Result = matched

	outcome := progress.Outcome{
		Scores:           p.Scores,
		GenderConfidence: p.GenderConfidence,
		AudioQuality:     res.AudioQuality,
		EstimatedWords:   words,
		At:               at,
	}
	// only a real match with a stated percentage earns match rewards
	if s.matcher != nil && matchErr == nil && !matched.PercentageDefaulted {
		outcome.MatchPercentage = matched.MatchPercentage
	}

	book := func(st progress.State, upd progress.Update) error {
		rep.Progress = st
		rep.NewAchievements = upd.NewAchievements
		if rep.NewAchievements == nil {
			rep.NewAchievements = []string{}
		}
		if commit == nil {
			return nil
		}
		return commit(rep)
	}

	if userID == "" {
		st := progress.NewState()
		if err := book(st, st.Apply(outcome)); err != nil {
			return Report{}, err
		}
		return rep, nil
	}

	if _, _, err := s.progress.RecordWith(ctx, userID, outcome, book); err != nil {
		return Report{}, err
	}

	return rep, nil
}
