// SPDX-License-Identifier: EPL-2.0

package progress

import (
	"slices"
	"testing"
	"time"

	"github.com/ik5/voxprofile/classify"
)

var day0 = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func TestNewState(t *testing.T) {
	t.Parallel()

	s := NewState()
	if s.Level != 1 || s.TotalXP != 0 || s.XPForNextLevel != 100 || len(s.Unlocked) != 0 {
		t.Errorf("NewState() = %+v", s)
	}
}

func TestAddXP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		xp         int
		wantLevels int
		wantLevel  int
		wantTotal  int
		wantNext   int
	}{
		{name: "below threshold", xp: 99, wantLevels: 0, wantLevel: 1, wantTotal: 99, wantNext: 100},
		{name: "exact threshold", xp: 100, wantLevels: 1, wantLevel: 2, wantTotal: 0, wantNext: 150},
		{name: "cascade", xp: 400, wantLevels: 2, wantLevel: 3, wantTotal: 150, wantNext: 225},
		{name: "three levels", xp: 475, wantLevels: 3, wantLevel: 4, wantTotal: 0, wantNext: 337},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewState()
			if got := s.AddXP(tt.xp); got != tt.wantLevels {
				t.Errorf("AddXP() = %d, want %d", got, tt.wantLevels)
			}
			if s.Level != tt.wantLevel || s.TotalXP != tt.wantTotal || s.XPForNextLevel != tt.wantNext {
				t.Errorf("state = level %d xp %d next %d, want %d %d %d",
					s.Level, s.TotalXP, s.XPForNextLevel, tt.wantLevel, tt.wantTotal, tt.wantNext)
			}
		})
	}
}

func TestApply_FirstRecording(t *testing.T) {
	t.Parallel()

	s := NewState()
	u := s.Apply(Outcome{EstimatedWords: 10, AudioQuality: 5, GenderConfidence: 55, At: day0})

	if !slices.Equal(u.NewAchievements, []string{FirstWords}) {
		t.Errorf("NewAchievements = %v, want [First Words]", u.NewAchievements)
	}
	if u.XPGained != RecordingXP+50 || u.LevelsGained != 1 {
		t.Errorf("Update = %+v, want 100 XP and one level", u)
	}
	if s.Level != 2 || s.TotalXP != 0 || s.XPForNextLevel != 150 {
		t.Errorf("level %d xp %d next %d", s.Level, s.TotalXP, s.XPForNextLevel)
	}
	if s.WordsSpoken != 10 || s.Recordings != 1 || s.HighQualityCount != 0 || s.Streak != 1 {
		t.Errorf("counters = %+v", s)
	}
	if s.LastActive != "2026-05-01" {
		t.Errorf("LastActive = %q", s.LastActive)
	}

	// nothing new on a second plain recording
	u = s.Apply(Outcome{EstimatedWords: 10, At: day0})
	if len(u.NewAchievements) != 0 || u.XPGained != RecordingXP {
		t.Errorf("second Update = %+v", u)
	}
}

func TestApply_Everything(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.Streak = StreakTarget - 1
	s.LastActive = day0.AddDate(0, 0, -1).Format(dayLayout)
	s.HighQualityCount = highQualityTarget - 1

	high := classify.Scores{Bass: 9, Clarity: 9, Smoothness: 9, Power: 9, Richness: 9}
	u := s.Apply(Outcome{
		Scores:           high,
		GenderConfidence: 95,
		AudioQuality:     9,
		EstimatedWords:   1000,
		MatchPercentage:  92,
		At:               day0,
	})

	want := []string{
		FirstWords, Chatterbox, SpeakerPro, VoiceMaster, QualityFirst, Perfectionist,
		DeepVoice, CrystalClear, SmoothOperator, PowerVoice, RichTone,
		CelebrityMatch, GenderExpert, StreakMaster, SpeechMaster,
	}
	if !slices.Equal(u.NewAchievements, want) {
		t.Errorf("NewAchievements = %v\nwant %v", u.NewAchievements, want)
	}

	wantXP := RecordingXP + MatchBonus(92)
	for _, a := range Catalog() {
		wantXP += a.XP
	}
	if u.XPGained != wantXP {
		t.Errorf("XPGained = %d, want %d", u.XPGained, wantXP)
	}
	if len(s.Unlocked) != len(Catalog()) {
		t.Errorf("Unlocked = %d entries, want %d", len(s.Unlocked), len(Catalog()))
	}
	if s.Streak != StreakTarget {
		t.Errorf("Streak = %d, want %d", s.Streak, StreakTarget)
	}

	u = s.Apply(Outcome{Scores: high, AudioQuality: 9, MatchPercentage: 92, At: day0})
	if len(u.NewAchievements) != 0 {
		t.Errorf("repeat unlocked %v", u.NewAchievements)
	}
}

func TestApply_Perfectionist(t *testing.T) {
	t.Parallel()

	s := NewState()
	for i := range highQualityTarget {
		u := s.Apply(Outcome{AudioQuality: 8, At: day0})
		got := slices.Contains(u.NewAchievements, Perfectionist)
		if want := i == highQualityTarget-1; got != want {
			t.Errorf("recording %d: Perfectionist unlocked = %v, want %v", i+1, got, want)
		}
	}
}

func TestApply_Streak(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		days []int
		want int
	}{
		{name: "single", days: []int{0}, want: 1},
		{name: "same day", days: []int{0, 0, 0}, want: 1},
		{name: "consecutive", days: []int{0, 1, 2}, want: 3},
		{name: "gap resets", days: []int{0, 1, 3}, want: 1},
		{name: "rebuild after gap", days: []int{0, 2, 3, 4}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewState()
			for _, d := range tt.days {
				s.Apply(Outcome{At: day0.AddDate(0, 0, d)})
			}
			if s.Streak != tt.want {
				t.Errorf("Streak = %d, want %d", s.Streak, tt.want)
			}
		})
	}
}

func TestApply_StreakMaster(t *testing.T) {
	t.Parallel()

	s := NewState()
	for d := range StreakTarget {
		u := s.Apply(Outcome{At: day0.AddDate(0, 0, d)})
		got := slices.Contains(u.NewAchievements, StreakMaster)
		if want := d == StreakTarget-1; got != want {
			t.Errorf("day %d: Streak Master unlocked = %v, want %v", d, got, want)
		}
	}
}

func TestMatchBonus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pct  float64
		want int
	}{
		{0, 0}, {79.9, 0}, {80, 50}, {89.9, 50}, {90, 100}, {100, 100},
	}

	for _, tt := range tests {
		if got := MatchBonus(tt.pct); got != tt.want {
			t.Errorf("MatchBonus(%v) = %d, want %d", tt.pct, got, tt.want)
		}
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	c := Catalog()
	if len(c) != 15 {
		t.Fatalf("len(Catalog()) = %d, want 15", len(c))
	}
	if c[len(c)-1].Name != SpeechMaster || c[len(c)-1].XP != 1000 {
		t.Errorf("last entry = %+v", c[len(c)-1])
	}
	if a, ok := Lookup(StreakMaster); !ok || a.XP != 250 {
		t.Errorf("Lookup(Streak Master) = %+v, %v", a, ok)
	}
	if _, ok := Lookup("Nope"); ok {
		t.Error("Lookup(unknown) ok = true")
	}
}
