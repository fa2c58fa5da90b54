// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/voxprofile/utils"
)

// Resample converts a mono buffer from one rate to another using cubic
// interpolation. Downsampling runs a two-pass one-pole low-pass at the new
// Nyquist frequency first to limit aliasing.
func Resample(x []float64, from, to int) []float64 {
	if from <= 0 || to <= 0 || from == to || len(x) == 0 {
		out := make([]float64, len(x))
		copy(out, x)
		return out
	}

	src := x
	if to < from {
		src = lowPass(x, float64(from), 0.45*float64(to))
	}

	step := float64(from) / float64(to)
	n := int(float64(len(src)) / step)
	out := make([]float64, n)

	at := func(i int) float64 {
		if i < 0 {
			return src[0]
		}
		if i >= len(src) {
			return src[len(src)-1]
		}
		return src[i]
	}

	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		frac := pos - float64(idx)
		out[i] = utils.CubicInterpolate(at(idx-1), at(idx), at(idx+1), at(idx+2), frac)
	}

	return out
}

// lowPass applies a forward and a backward one-pole filter so the result
// has no phase shift.
func lowPass(x []float64, rate, cutoff float64) []float64 {
	alpha := 1 - math.Exp(-2*math.Pi*cutoff/rate)
	out := make([]float64, len(x))

	acc := x[0]
	for i, v := range x {
		acc += alpha * (v - acc)
		out[i] = acc
	}

	acc = out[len(out)-1]
	for i := len(out) - 1; i >= 0; i-- {
		acc += alpha * (out[i] - acc)
		out[i] = acc
	}

	return out
}
