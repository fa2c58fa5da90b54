// SPDX-License-Identifier: EPL-2.0

package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/ik5/voxprofile/classify"
)

// Request carries what the matcher knows about a voice.
type Request struct {
	Gender     classify.Gender
	Age        classify.AgeBracket
	Scores     classify.Scores
	PitchMean  float64
	PitchRange float64
}

// Result is a matched voice. The fields are free text produced by the
// model and are passed through untouched.
type Result struct {
	Name            string  `json:"celebrity_name"`
	MatchPercentage float64 `json:"match_percentage"`
	Description     string  `json:"description"`
	FunFact         string  `json:"fun_fact"`
	StandoutQuality string  `json:"standout_quality"`

	// PercentageDefaulted is set when the reply carried no percentage and
	// MatchPercentage holds the fallback value.
	PercentageDefaulted bool `json:"-" msgpack:"-"`
}

// Bounds of the match percentage asked of the model.
const (
	MinMatchPercentage = 75.0
	MaxMatchPercentage = 95.0
)

// Fallback is the result reported when no match could be produced.
func Fallback() Result {
	return Result{
		Name:            "Unknown",
		MatchPercentage: 85,
		Description:     "Unique voice",
		FunFact:         "Your voice is special!",
		StandoutQuality: "Authenticity",
	}
}

// fill replaces missing fields with their fallback values.
func (r Result) fill() Result {
	fb := Fallback()
	if r.Name == "" {
		r.Name = fb.Name
	}
	if r.MatchPercentage <= 0 {
		r.MatchPercentage = fb.MatchPercentage
		r.PercentageDefaulted = true
	}
	if r.Description == "" {
		r.Description = fb.Description
	}
	if r.FunFact == "" {
		r.FunFact = fb.FunFact
	}
	if r.StandoutQuality == "" {
		r.StandoutQuality = fb.StandoutQuality
	}

	return r
}

// Matcher finds a matching voice.
type Matcher interface {
	Match(ctx context.Context, req Request) (Result, error)
}

// Static always returns the same result. Useful offline and in tests.
type Static struct {
	Result Result
}

func (s Static) Match(ctx context.Context, _ Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	return s.Result.fill(), nil
}

// Resolve runs m and falls back on any error. A nil matcher yields the
// fallback. The error is returned alongside so callers can log it.
func Resolve(ctx context.Context, m Matcher, req Request) (Result, error) {
	if m == nil {
		return Fallback(), nil
	}

	res, err := m.Match(ctx, req)
	if err != nil {
		return Fallback(), err
	}

	return res.fill(), nil
}

type catalogKey struct {
	gender classify.Gender
	age    classify.AgeBracket
}

var catalog = map[catalogKey][]string{
	{classify.Male, classify.Young}:    {"Varun Dhawan", "Ranbir Kapoor", "Kartik Aaryan", "Vicky Kaushal", "Sidharth Malhotra"},
	{classify.Male, classify.Middle}:   {"Shah Rukh Khan", "Ranveer Singh", "Hrithik Roshan", "Saif Ali Khan", "Akshay Kumar"},
	{classify.Male, classify.Senior}:   {"Amitabh Bachchan", "Naseeruddin Shah", "Anupam Kher", "Paresh Rawal"},
	{classify.Female, classify.Young}:  {"Alia Bhatt", "Janhvi Kapoor", "Sara Ali Khan", "Ananya Panday", "Kiara Advani"},
	{classify.Female, classify.Middle}: {"Deepika Padukone", "Priyanka Chopra", "Kareena Kapoor", "Katrina Kaif", "Vidya Balan"},
	{classify.Female, classify.Senior}: {"Jaya Bachchan", "Waheeda Rehman", "Shabana Azmi", "Rekha"},
}

// Candidates lists the catalog entries for a gender and age bracket.
func Candidates(g classify.Gender, a classify.AgeBracket) []string {
	c, ok := catalog[catalogKey{g, a}]
	if !ok {
		return []string{"Unique Voice"}
	}

	return append([]string(nil), c...)
}

const systemPrompt = "You are a voice analysis expert. Respond with valid JSON only, no markdown formatting."

// Prompt renders the user message sent to the model.
func Prompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Based on these voice characteristics, pick the BEST celebrity match from Bollywood:\n")
	fmt.Fprintf(&b, "Gender: %s, Age: %s\n", req.Gender, req.Age)
	fmt.Fprintf(&b, "Pitch: %.1fHz, Pitch range: %.1fHz, Bass: %.1f, Clarity: %.1f\n",
		req.PitchMean, req.PitchRange, req.Scores.Bass, req.Scores.Clarity)
	fmt.Fprintf(&b, "Warmth: %.1f, Richness: %.1f\n", req.Scores.Warmth, req.Scores.Richness)
	fmt.Fprintf(&b, "Possible matches: %s\n\n", strings.Join(Candidates(req.Gender, req.Age), ", "))
	b.WriteString("Respond with ONLY valid JSON (no markdown, no code blocks):\n")
	fmt.Fprintf(&b, `{"celebrity_name": "name", "match_percentage": %.0f-%.0f, "description": "one exciting sentence about voice similarity", "fun_fact": "interesting fact about the celebrity", "standout_quality": "what makes this voice special"}`,
		MinMatchPercentage, MaxMatchPercentage)

	return b.String()
}
