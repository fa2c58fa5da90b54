// SPDX-License-Identifier: EPL-2.0

package match

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// stripFences removes a surrounding markdown code block, with or without a
// language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if end := strings.Index(s, "```"); end >= 0 {
		s = s[:end]
	}
	s = strings.TrimPrefix(s, "json")

	return strings.TrimSpace(s)
}

// reply is the wire form of a model answer. A nil MatchPercentage means
// the model left it out.
type reply struct {
	Name            string   `json:"celebrity_name"`
	MatchPercentage *float64 `json:"match_percentage"`
	Description     string   `json:"description"`
	FunFact         string   `json:"fun_fact"`
	StandoutQuality string   `json:"standout_quality"`
}

// result clamps a given percentage into the requested range.
func (r reply) result() Result {
	res := Result{
		Name:            r.Name,
		Description:     r.Description,
		FunFact:         r.FunFact,
		StandoutQuality: r.StandoutQuality,
	}
	if r.MatchPercentage != nil {
		res.MatchPercentage = min(max(*r.MatchPercentage, MinMatchPercentage), MaxMatchPercentage)
	}

	return res
}

// ParseReply decodes a model reply into a Result. Malformed JSON is
// repaired once before giving up. A missing percentage stays zero.
func ParseReply(content string) (Result, error) {
	content = stripFences(content)
	if content == "" {
		return Result{}, ErrEmptyReply
	}

	var r reply
	err := json.Unmarshal([]byte(content), &r)
	if err == nil {
		return r.result(), nil
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return Result{}, fmt.Errorf("decoding reply: %w", err)
	}

	fixed, rerr := jsonrepair.JSONRepair(content)
	if rerr != nil {
		return Result{}, fmt.Errorf("repairing reply: %w", rerr)
	}
	if err := json.Unmarshal([]byte(fixed), &r); err != nil {
		return Result{}, fmt.Errorf("decoding repaired reply: %w", err)
	}

	return r.result(), nil
}
