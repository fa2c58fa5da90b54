// SPDX-License-Identifier: EPL-2.0

package progress

import (
	"slices"
	"time"

	"github.com/ik5/voxprofile/classify"
)

const (
	StartXPForNextLevel = 100
	LevelGrowth         = 1.5
	RecordingXP         = 50
	StreakTarget        = 5

	// thresholds on 0..10 scores
	scoreTarget = 8
	// recordings at or above scoreTarget needed for Perfectionist
	highQualityTarget = 5

	dayLayout = "2006-01-02"
)

// State is the gamification state of one user.
type State struct {
	Level            int      `json:"level" msgpack:"level"`
	TotalXP          int      `json:"total_xp" msgpack:"total_xp"`
	XPForNextLevel   int      `json:"xp_for_next_level" msgpack:"xp_for_next_level"`
	Streak           int      `json:"streak" msgpack:"streak"`
	WordsSpoken      int      `json:"words_spoken" msgpack:"words_spoken"`
	Recordings       int      `json:"recordings_count" msgpack:"recordings_count"`
	HighQualityCount int      `json:"high_quality_count" msgpack:"high_quality_count"`
	Unlocked         []string `json:"unlocked_achievements" msgpack:"unlocked_achievements"`
	// LastActive is the UTC day of the last recording, YYYY-MM-DD.
	LastActive string `json:"last_active,omitempty" msgpack:"last_active"`
}

// NewState returns the state of a user who has not recorded anything.
func NewState() State {
	return State{Level: 1, XPForNextLevel: StartXPForNextLevel, Unlocked: []string{}}
}

// Has reports whether the achievement is unlocked.
func (s *State) Has(name string) bool {
	return slices.Contains(s.Unlocked, name)
}

// AddXP adds n points and levels up while the total reaches the next
// threshold. Each level up consumes the threshold and grows it by
// LevelGrowth. It returns the number of levels gained.
func (s *State) AddXP(n int) int {
	if s.XPForNextLevel <= 0 {
		s.XPForNextLevel = StartXPForNextLevel
	}
	if s.Level <= 0 {
		s.Level = 1
	}

	s.TotalXP += n

	levels := 0
	for s.TotalXP >= s.XPForNextLevel {
		s.TotalXP -= s.XPForNextLevel
		s.Level++
		s.XPForNextLevel = int(float64(s.XPForNextLevel) * LevelGrowth)
		levels++
	}

	return levels
}

// touch advances the daily streak for a recording made at t.
func (s *State) touch(t time.Time) {
	day := t.UTC().Format(dayLayout)

	switch {
	case s.LastActive == day:
		if s.Streak == 0 {
			s.Streak = 1
		}
	case s.LastActive == t.UTC().AddDate(0, 0, -1).Format(dayLayout):
		s.Streak++
	default:
		s.Streak = 1
	}

	s.LastActive = day
}

// Outcome is what one analysed recording contributes.
type Outcome struct {
	Scores           classify.Scores
	GenderConfidence float64
	AudioQuality     float64
	EstimatedWords   int
	// MatchPercentage is zero when no match was attempted.
	MatchPercentage float64
	At              time.Time
}

// MatchBonus is the extra XP awarded for a close voice match.
func MatchBonus(pct float64) int {
	switch {
	case pct >= 90:
		return 100
	case pct >= 80:
		return 50
	default:
		return 0
	}
}

// Update describes what Apply changed.
type Update struct {
	NewAchievements []string `json:"new_achievements"`
	XPGained        int      `json:"xp_gained"`
	LevelsGained    int      `json:"levels_gained"`
}

// Apply records one recording: counters and streak are updated first,
// then recording and match XP are granted and achievements checked in
// catalog order. Speech Master follows once every other achievement is
// unlocked.
func (s *State) Apply(o Outcome) Update {
	if s.Level <= 0 {
		*s = NewState()
	}
	if o.At.IsZero() {
		o.At = time.Now()
	}

	var u Update
	grant := func(xp int) {
		u.XPGained += xp
		u.LevelsGained += s.AddXP(xp)
	}
	unlock := func(name string, cond bool) {
		if !cond || s.Has(name) {
			return
		}
		a, _ := Lookup(name)
		s.Unlocked = append(s.Unlocked, name)
		u.NewAchievements = append(u.NewAchievements, name)
		grant(a.XP)
	}

	s.WordsSpoken += max(o.EstimatedWords, 0)
	s.Recordings++
	if o.AudioQuality >= scoreTarget {
		s.HighQualityCount++
	}
	s.touch(o.At)

	grant(RecordingXP)
	grant(MatchBonus(o.MatchPercentage))

	unlock(FirstWords, true)
	unlock(Chatterbox, s.WordsSpoken >= 100)
	unlock(SpeakerPro, s.WordsSpoken >= 500)
	unlock(VoiceMaster, s.WordsSpoken >= 1000)
	unlock(QualityFirst, o.AudioQuality >= scoreTarget)
	unlock(Perfectionist, o.AudioQuality >= scoreTarget && s.HighQualityCount >= highQualityTarget)
	unlock(DeepVoice, o.Scores.Bass >= scoreTarget)
	unlock(CrystalClear, o.Scores.Clarity >= scoreTarget)
	unlock(SmoothOperator, o.Scores.Smoothness >= scoreTarget)
	unlock(PowerVoice, o.Scores.Power >= scoreTarget)
	unlock(RichTone, o.Scores.Richness >= scoreTarget)
	unlock(CelebrityMatch, o.MatchPercentage >= 90)
	unlock(GenderExpert, o.GenderConfidence >= 95)
	unlock(StreakMaster, s.Streak >= StreakTarget)
	unlock(SpeechMaster, len(s.Unlocked) >= len(catalog)-1)

	return u
}
