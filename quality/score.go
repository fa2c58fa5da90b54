// SPDX-License-Identifier: EPL-2.0

package quality

import (
	"time"

	"github.com/ik5/voxprofile/utils"
)

// Tier is the coarse quality label shown during capture.
type Tier string

const (
	Excellent Tier = "excellent"
	Good      Tier = "good"
	Moderate  Tier = "moderate"
	Poor      Tier = "poor"
)

// Description is the human-readable line shown next to the tier.
func (t Tier) Description() string {
	switch t {
	case Excellent:
		return "Excellent - Clear audio with minimal noise"
	case Good:
		return "Good - Some background noise present"
	case Moderate:
		return "Moderate - Noticeable noise may affect accuracy"
	default:
		return "Poor - High noise levels, accuracy limited"
	}
}

// Mode is the transcription strategy recommended for a tier.
type Mode string

const (
	Fast     Mode = "fast"
	Balanced Mode = "balanced"
	Robust   Mode = "robust"
)

// Sample is one monitor reading.
type Sample struct {
	Score float64   `json:"score"`
	Tier  Tier      `json:"tier"`
	Mode  Mode      `json:"mode"`
	At    time.Time `json:"at"`
}

const (
	binCeiling   = 255.0
	activeBin    = 10
	volumeWeight = 40.0
	spreadWeight = 30.0
	rangeWeight  = 30.0
)

// Score rates a byte-frequency snapshot on a 1..10 scale. It combines mean
// loudness (up to 40 points), the share of active bins (up to 30) and the
// dynamic range between quietest and loudest bin (up to 30).
// An empty snapshot scores 1.
func Score(bins []uint8) float64 {
	if len(bins) == 0 {
		return 1
	}

	var sum, active int
	lo, hi := bins[0], bins[0]
	for _, b := range bins {
		sum += int(b)
		if b > activeBin {
			active++
		}
		lo = min(lo, b)
		hi = max(hi, b)
	}

	n := float64(len(bins))
	volume := utils.Clamp(float64(sum)/n/binCeiling*volumeWeight, 0, volumeWeight)
	spread := utils.Clamp(float64(active)/n*spreadWeight, 0, spreadWeight)
	span := utils.Clamp(float64(hi-lo)/binCeiling*rangeWeight, 0, rangeWeight)

	return utils.Clamp((volume+spread+span)/10, 1, 10)
}

// Classify maps a score to its tier and recommended mode.
func Classify(score float64) (Tier, Mode) {
	switch {
	case score >= 8:
		return Excellent, Fast
	case score >= 5:
		return Good, Balanced
	case score >= 3:
		return Moderate, Robust
	default:
		return Poor, Robust
	}
}

// Measure scores bins and stamps the result.
func Measure(bins []uint8, at time.Time) Sample {
	score := Score(bins)
	tier, mode := Classify(score)

	return Sample{Score: score, Tier: tier, Mode: mode, At: at}
}
