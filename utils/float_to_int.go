// SPDX-License-Identifier: EPL-2.0

package utils

const (
	// NegativeScale maps -1.0 to math.MinInt16.
	NegativeScale = 32768.0
	// PositiveScale maps 1.0 to math.MaxInt16.
	PositiveScale = 32767.0
)

// Float32ToInt16 converts a normalized sample into signed 16-bit PCM.
//
// The input is clamped to [-1, 1]. Negative values scale by 32768 and
// non-negative values by 32767, so both ends of the int16 range are
// reachable without overflow. The fractional part is truncated toward zero.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	if x < 0 {
		return int16(x * NegativeScale)
	}

	return int16(x * PositiveScale)
}

// Int16ToFloat64 is the inverse normalization used by the analysis path.
func Int16ToFloat64(v int16) float64 {
	if v < 0 {
		return float64(v) / NegativeScale
	}

	return float64(v) / PositiveScale
}

// Float32sToInt16s converts src into dst and returns the filled prefix of dst.
// dst is grown when it is too small.
func Float32sToInt16s(dst []int16, src []float32) []int16 {
	if cap(dst) < len(src) {
		dst = make([]int16, len(src))
	}
	dst = dst[:len(src)]

	for i, x := range src {
		dst[i] = Float32ToInt16(x)
	}

	return dst
}
