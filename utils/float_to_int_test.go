// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{name: "zero", input: 0, want: 0},
		{name: "full scale positive", input: 1, want: math.MaxInt16},
		{name: "full scale negative", input: -1, want: math.MinInt16},
		{name: "half positive", input: 0.5, want: 16383},
		{name: "half negative", input: -0.5, want: -16384},
		{name: "quarter positive", input: 0.25, want: 8191},
		{name: "quarter negative", input: -0.25, want: -8192},
		{name: "small positive truncates", input: 0.001, want: 32},
		{name: "small negative truncates", input: -0.001, want: -32},
		{name: "clamp over max", input: 1.5, want: math.MaxInt16},
		{name: "clamp under min", input: -3, want: math.MinInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Float32ToInt16(tt.input); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFloat32ToInt16Monotonic(t *testing.T) {
	t.Parallel()

	prev := Float32ToInt16(-1)
	for x := float32(-1); x <= 1; x += 0.001 {
		got := Float32ToInt16(x)
		if got < prev {
			t.Fatalf("Float32ToInt16(%v) = %d, smaller than previous %d", x, got, prev)
		}
		prev = got
	}
}

func TestInt16ToFloat64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int16
		want float64
	}{
		{in: 0, want: 0},
		{in: math.MaxInt16, want: 1},
		{in: math.MinInt16, want: -1},
	}

	for _, tt := range tests {
		if got := Int16ToFloat64(tt.in); got != tt.want {
			t.Errorf("Int16ToFloat64(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFloat32sToInt16s(t *testing.T) {
	t.Parallel()

	src := []float32{0, 1, -1, 0.5}
	got := Float32sToInt16s(nil, src)
	want := []int16{0, math.MaxInt16, math.MinInt16, 16383}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	// reuses capacity
	reused := Float32sToInt16s(make([]int16, 0, 8), src[:2])
	if cap(reused) != 8 || len(reused) != 2 {
		t.Errorf("reused len/cap = %d/%d, want 2/8", len(reused), cap(reused))
	}
}

func BenchmarkFloat32ToInt16(b *testing.B) {
	var result int16

	b.ReportAllocs()
	for i := range b.N {
		result = Float32ToInt16(float32(i%2000)/1000 - 1)
	}
	_ = result
}

func TestFloat32sToInt16s_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	src := make([]float32, 1024)
	dst := make([]int16, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		dst = Float32sToInt16s(dst, src)
	})
	if allocs > 0 {
		t.Errorf("Float32sToInt16s allocated %v times, want 0", allocs)
	}
}
