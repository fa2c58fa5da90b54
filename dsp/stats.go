// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of x, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return stat.Mean(x, nil)
}

// Median returns the middle value of x, averaging the two central values
// for even lengths. Empty input yields 0.
func Median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	s := slices.Sorted(slices.Values(x))
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}

	return (s[mid-1] + s[mid]) / 2
}

// PopStd is the population standard deviation.
func PopStd(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}

	return math.Sqrt(stat.PopVariance(x, nil))
}

// Span returns max(x) - min(x).
func Span(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return floats.Max(x) - floats.Min(x)
}

// IQRFilter keeps the values within [Q1-1.5*IQR, Q3+1.5*IQR], preserving
// their order.
func IQRFilter(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}

	s := slices.Sorted(slices.Values(x))
	q1 := stat.Quantile(0.25, stat.LinInterp, s, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, s, nil)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr

	out := make([]float64, 0, len(x))
	for _, v := range x {
		if v >= lo && v <= hi {
			out = append(out, v)
		}
	}

	return out
}

// MeanAbs returns the mean absolute value of x.
func MeanAbs(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return floats.Norm(x, 1) / float64(len(x))
}
