// SPDX-License-Identifier: EPL-2.0

package voxprofile

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/ik5/voxprofile/classify"
	"github.com/ik5/voxprofile/features"
	"github.com/ik5/voxprofile/formats/wav"
	"github.com/ik5/voxprofile/internal/audiotest"
	"github.com/ik5/voxprofile/pcm"
)

func newSession(t *testing.T, rate, channels int, frames ...[]float64) *pcm.Session {
	t.Helper()

	s, err := pcm.New(rate, channels)
	if err != nil {
		t.Fatalf("pcm.New() error = %v", err)
	}
	for _, f := range frames {
		if err := s.Append(audiotest.Float32s(f)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	return s
}

func TestFinish_VoicedSession(t *testing.T) {
	t.Parallel()

	const rate = 16000
	tone := audiotest.Voiced(rate, 2*rate, 120, 0.4, 6)
	s := newSession(t, rate, 1, tone[:rate], tone[rate:])
	s.Stop("hello there general kenobi")

	rec, err := Finish(s)
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	if rec.WAV.Len() != wav.HeaderSize+2*len(tone) {
		t.Errorf("WAV length = %d, want %d", rec.WAV.Len(), wav.HeaderSize+2*len(tone))
	}
	if h := rec.WAV.Header(); h.SampleRate != rate || h.NumChannels != 1 {
		t.Errorf("header = %+v", h)
	}
	if rec.Transcript != "hello there general kenobi" || rec.SessionID != s.ID() {
		t.Errorf("recording metadata = %q, %q", rec.Transcript, rec.SessionID)
	}
	if math.Abs(rec.Result.Features.Duration-2) > 1e-9 {
		t.Errorf("Duration = %v, want 2", rec.Result.Features.Duration)
	}
	if math.Abs(rec.Result.Features.PitchMedian-120) > 5 {
		t.Errorf("PitchMedian = %v, want about 120", rec.Result.Features.PitchMedian)
	}
	if rec.Result.Profile.Gender != classify.Male {
		t.Errorf("Gender = %s, want male", rec.Result.Profile.Gender)
	}
	if rec.Result.EstimatedWords != 5 {
		t.Errorf("EstimatedWords = %d, want 5", rec.Result.EstimatedWords)
	}

	if _, err := s.Samples(); !errors.Is(err, pcm.ErrReleased) {
		t.Errorf("session not released: err = %v", err)
	}
	if _, err := Finish(s); !errors.Is(err, pcm.ErrReleased) {
		t.Errorf("second Finish() error = %v, want ErrReleased", err)
	}
}

func TestFinish_RoundTripsAudio(t *testing.T) {
	t.Parallel()

	s := newSession(t, 8000, 2, audiotest.Sine(8000, 1600, 440, 0.5))
	want, err := s.Samples()
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}

	rec, err := Finish(s)
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	got, err := wav.ReadPCM16(bytes.NewReader(rec.WAV.Bytes()))
	if err != nil {
		t.Fatalf("ReadPCM16() error = %v", err)
	}
	if got.Channels != 2 || got.SampleRate != 8000 || len(got.Samples) != len(want) {
		t.Fatalf("decoded %d ch %d Hz %d samples", got.Channels, got.SampleRate, len(got.Samples))
	}
	for i := range want {
		if got.Samples[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got.Samples[i], want[i])
		}
	}

	// 1600 interleaved stereo samples are 800 frames at 8 kHz
	if d := rec.Result.Features.Duration; math.Abs(d-0.1) > 1e-9 {
		t.Errorf("Duration = %v, want 0.1", d)
	}
}

func TestFinish_EmptySession(t *testing.T) {
	t.Parallel()

	rec, err := Finish(newSession(t, 16000, 1))
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if rec.WAV.Len() != wav.HeaderSize {
		t.Errorf("WAV length = %d, want %d", rec.WAV.Len(), wav.HeaderSize)
	}
	if rec.Result.Features != features.Defaults() {
		t.Errorf("Features = %+v, want defaults", rec.Result.Features)
	}
	if rec.StoppedAt.IsZero() {
		t.Error("Finish did not stop the session")
	}
}

func TestAnalyze_Downsamples(t *testing.T) {
	t.Parallel()

	x := audiotest.Voiced(44100, 44100, 200, 0.4, 4)

	capped := New(WithMaxSampleRate(16000)).Analyze(x, 44100)
	if math.Abs(capped.Features.Duration-1) > 1e-3 {
		t.Errorf("Duration = %v, want 1", capped.Features.Duration)
	}
	if math.Abs(capped.Features.PitchMedian-200) > 5 {
		t.Errorf("PitchMedian = %v, want about 200", capped.Features.PitchMedian)
	}

	if got := New(WithMaxSampleRate(0)).MaxSampleRate(); got != 0 {
		t.Errorf("MaxSampleRate = %d, want 0", got)
	}
}

func TestAnalyze_CustomClassifier(t *testing.T) {
	t.Parallel()

	cfg := classify.DefaultConfig()
	cfg.Gender.TieBreakPitch = 1000
	cfg.Gender.DecisionMargin = 1000

	res := New(WithClassifier(cfg)).Analyze(audiotest.Voiced(16000, 16000, 300, 0.4, 3), 16000)
	if res.Profile.Gender != classify.Male || res.Profile.GenderConfidence != 55 {
		t.Errorf("profile = %s/%v, want male/55 from the tie-break", res.Profile.Gender, res.Profile.GenderConfidence)
	}
}

func TestAnalyzeSource(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(16000, 2, 16000, 180)
	res, err := AnalyzeSource(src)
	if err != nil {
		t.Fatalf("AnalyzeSource() error = %v", err)
	}
	if math.Abs(res.Features.Duration-1) > 1e-9 {
		t.Errorf("Duration = %v, want 1", res.Features.Duration)
	}
	if math.Abs(res.Features.PitchMedian-180) > 5 {
		t.Errorf("PitchMedian = %v, want about 180", res.Features.PitchMedian)
	}
}

func TestResampleToMono16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
		target   int
		wantRate int
		wantLen  int
	}{
		{name: "stereo 44.1k to 8k", rate: 44100, channels: 2, target: 8000, wantRate: 8000, wantLen: 8000},
		{name: "keep rate", rate: 16000, channels: 1, target: 0, wantRate: 16000, wantLen: 16000},
		{name: "upsample", rate: 8000, channels: 1, target: 16000, wantRate: 16000, wantLen: 16000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewSineSource(tt.rate, tt.channels, tt.rate, 440)
			pcm16, rate, err := ResampleToMono16(src, tt.target)
			if err != nil {
				t.Fatalf("ResampleToMono16() error = %v", err)
			}
			if rate != tt.wantRate {
				t.Errorf("rate = %d, want %d", rate, tt.wantRate)
			}
			if d := len(pcm16) - tt.wantLen; d < -1 || d > 1 {
				t.Errorf("len = %d, want %d", len(pcm16), tt.wantLen)
			}
		})
	}
}

func TestDownmix(t *testing.T) {
	t.Parallel()

	got := downmix([]int16{16384, -16384, 32767, 32767, 0}, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (trailing partial frame dropped)", len(got))
	}
	if math.Abs(got[0]) > 1e-4 {
		t.Errorf("got[0] = %v, want about 0", got[0])
	}
	if math.Abs(got[1]-32767.0/32768) > 1e-4 {
		t.Errorf("got[1] = %v", got[1])
	}
}

func BenchmarkFinish(b *testing.B) {
	tone := audiotest.Float32s(audiotest.Voiced(16000, 16000*3, 140, 0.4, 6))

	b.ReportAllocs()
	for range b.N {
		s, _ := pcm.New(16000, 1)
		_ = s.Append(tone)
		_, _ = Finish(s)
	}
}
