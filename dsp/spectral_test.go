// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"testing"

	"github.com/ik5/voxprofile/internal/audiotest"
)

func TestSpectral_Centroid(t *testing.T) {
	t.Parallel()

	s := NewSpectral()

	tone := s.Centroid(audiotest.Sine(16000, 16000, 1000, 0.5), 16000)
	if len(tone) != FrameCount(16000, DefaultHop) {
		t.Fatalf("frames = %d, want %d", len(tone), FrameCount(16000, DefaultHop))
	}
	if m := Median(tone); math.Abs(m-1000) > 30 {
		t.Errorf("median centroid = %.1f, want about 1000", m)
	}

	for i, v := range s.Centroid(make([]float64, 4000), 16000) {
		if v != 0 {
			t.Fatalf("silent frame %d centroid = %v, want 0", i, v)
		}
	}
}

func TestSpectral_Flatness(t *testing.T) {
	t.Parallel()

	s := NewSpectral()

	for i, v := range s.Flatness(make([]float64, 4000)) {
		if math.Abs(v-1) > 1e-12 {
			t.Fatalf("silent frame %d flatness = %v, want 1", i, v)
		}
	}

	noise := Mean(s.Flatness(audiotest.Noise(16000, 0.5, 7)))
	tone := Mean(s.Flatness(audiotest.Sine(16000, 16000, 1000, 0.5)))
	if tone >= 0.1 {
		t.Errorf("tone flatness = %v, want < 0.1", tone)
	}
	if noise <= 10*tone {
		t.Errorf("noise flatness %v should dominate tone flatness %v", noise, tone)
	}
}

func TestSpectral_ZeroCrossingRate(t *testing.T) {
	t.Parallel()

	s := NewSpectral()

	// a 1 kHz tone at 16 kHz crosses zero twice every 16 samples
	zcr := s.ZeroCrossingRate(audiotest.Sine(16000, 16000, 1000, 0.5))
	if m := Median(zcr); math.Abs(m-0.125) > 0.01 {
		t.Errorf("median zcr = %v, want about 0.125", m)
	}

	for i, v := range s.ZeroCrossingRate(make([]float64, 3000)) {
		if v != 0 {
			t.Fatalf("silent frame %d zcr = %v, want 0", i, v)
		}
	}

	if got := s.ZeroCrossingRate(nil); len(got) != 0 {
		t.Errorf("empty input produced %d frames", len(got))
	}
}

func TestSpectral_RMS(t *testing.T) {
	t.Parallel()

	rms := NewSpectral().RMS(audiotest.Sine(16000, 16000, 1000, 0.5))
	want := 0.5 / math.Sqrt2
	if got := rms[len(rms)/2]; math.Abs(got-want) > 1e-3 {
		t.Errorf("interior rms = %v, want %v", got, want)
	}
	if rms[0] >= rms[len(rms)/2] {
		t.Errorf("edge frame rms %v should be below interior %v", rms[0], rms[len(rms)/2])
	}
}

func TestSpectral_Peaks(t *testing.T) {
	t.Parallel()

	s := NewSpectral()

	peaks := s.Peaks(audiotest.Sine(16000, 16000, 1000, 0.5), 16000, 10, 1)
	if len(peaks) != 10 {
		t.Fatalf("len = %d, want 10", len(peaks))
	}
	for i, f := range peaks {
		if math.Abs(f-1000) > 8 {
			t.Errorf("peak %d = %v, want 1000", i, f)
		}
	}

	top := s.Peaks(audiotest.Noise(8000, 0.5, 2), 8000, 3, 5)
	if len(top) != 15 {
		t.Errorf("noise peaks = %d, want 15", len(top))
	}

	if got := s.Peaks(make([]float64, 8000), 8000, 100, 5); len(got) != 0 {
		t.Errorf("silence produced %d peaks, want 0", len(got))
	}
}
