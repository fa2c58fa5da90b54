// SPDX-License-Identifier: EPL-2.0

package progress

// Achievement is one entry of the catalog.
type Achievement struct {
	Name        string `json:"name"`
	Description string `json:"desc"`
	XP          int    `json:"xp"`
	Icon        string `json:"icon"`
}

const (
	FirstWords     = "First Words"
	Chatterbox     = "Chatterbox"
	SpeakerPro     = "Speaker Pro"
	VoiceMaster    = "Voice Master"
	QualityFirst   = "Quality First"
	Perfectionist  = "Perfectionist"
	DeepVoice      = "Deep Voice"
	CrystalClear   = "Crystal Clear"
	CelebrityMatch = "Celebrity Match"
	StreakMaster   = "Streak Master"
	GenderExpert   = "Gender Expert"
	SmoothOperator = "Smooth Operator"
	PowerVoice     = "Power Voice"
	RichTone       = "Rich Tone"
	SpeechMaster   = "Speech Master"
)

var catalog = []Achievement{
	{FirstWords, "Record your first transcription", 50, "🎤"},
	{Chatterbox, "Speak 100 words", 100, "💬"},
	{SpeakerPro, "Speak 500 words", 250, "🗣️"},
	{VoiceMaster, "Speak 1000 words", 500, "🎙️"},
	{QualityFirst, "Achieve 8+ audio quality", 150, "⭐"},
	{Perfectionist, "Get 5 high-quality recordings", 300, "💎"},
	{DeepVoice, "Get Bass score 8+", 100, "🔊"},
	{CrystalClear, "Get Clarity 8+", 100, "✨"},
	{CelebrityMatch, "Get 90%+ celebrity match", 200, "🌟"},
	{StreakMaster, "5 day streak", 250, "🔥"},
	{GenderExpert, "95%+ gender confidence", 150, "🎯"},
	{SmoothOperator, "Smoothness 8+", 100, "🌊"},
	{PowerVoice, "Power score 8+", 100, "⚡"},
	{RichTone, "Richness 8+", 100, "🎨"},
	{SpeechMaster, "Unlock all achievements", 1000, "👑"},
}

// Catalog returns every achievement in display order.
func Catalog() []Achievement {
	return append([]Achievement(nil), catalog...)
}

// Lookup finds an achievement by name.
func Lookup(name string) (Achievement, bool) {
	for _, a := range catalog {
		if a.Name == name {
			return a, true
		}
	}

	return Achievement{}, false
}
