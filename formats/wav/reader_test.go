// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestReadPCM16_RoundTrip(t *testing.T) {
	t.Parallel()

	formats := []struct {
		rate     int
		channels int
	}{
		{8000, 1}, {16000, 2}, {44100, 1}, {48000, 6},
	}

	for _, f := range formats {
		for frames := range 40 {
			samples := make([]int16, frames*f.channels)
			for i := range samples {
				// sweep the full range, extremes included
				samples[i] = int16(int32(math.MinInt16) + int32(i*7919)%65536)
			}
			if len(samples) > 1 {
				samples[0] = math.MinInt16
				samples[len(samples)-1] = math.MaxInt16
			}

			art, err := Encode(samples, f.rate, f.channels)
			if err != nil {
				t.Fatalf("Encode(%d frames, %d Hz, %d ch) error = %v", frames, f.rate, f.channels, err)
			}

			got, err := ReadPCM16(bytes.NewReader(art.Bytes()))
			if err != nil {
				t.Fatalf("ReadPCM16() error = %v", err)
			}
			if got.SampleRate != f.rate || got.Channels != f.channels || got.BitDepth != 16 {
				t.Fatalf("ReadPCM16() format = %d Hz %d ch %d bit", got.SampleRate, got.Channels, got.BitDepth)
			}
			if len(got.Samples) != len(samples) {
				t.Fatalf("ReadPCM16() len = %d, want %d", len(got.Samples), len(samples))
			}
			for i := range samples {
				if got.Samples[i] != samples[i] {
					t.Fatalf("sample %d = %d, want %d", i, got.Samples[i], samples[i])
				}
			}
		}
	}
}

func TestReadPCM16_Rejects(t *testing.T) {
	t.Parallel()

	valid, _ := Encode([]int16{1, 2}, 8000, 1)

	mutate := func(f func(b []byte) []byte) []byte {
		return f(valid.Bytes())
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "too short", data: []byte("RIFF"), want: ErrNotWavFile},
		{name: "not riff", data: mutate(func(b []byte) []byte { copy(b, "RIFX"); return b }), want: ErrNotWavFile},
		{name: "no fmt", data: mutate(func(b []byte) []byte { copy(b[12:], "junk"); return b }), want: ErrUnsupportedWavLayout},
		{name: "list before data", data: mutate(func(b []byte) []byte { copy(b[36:], "LIST"); return b }), want: ErrUnsupportedWavChunks},
		{name: "float format", data: mutate(func(b []byte) []byte { b[20] = 3; return b }), want: ErrOnlyPCM16bitSupported},
		{name: "8 bit", data: mutate(func(b []byte) []byte { b[34] = 8; return b }), want: ErrOnlyPCM16bitSupported},
		{name: "truncated data", data: mutate(func(b []byte) []byte { return b[:len(b)-1] }), want: ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadPCM16(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadPCM16() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPCM16_Duration(t *testing.T) {
	t.Parallel()

	p := PCM16{SampleRate: 8000, Channels: 2, Samples: make([]int16, 8000)}
	if got := p.Duration(); got != 0.5 {
		t.Errorf("Duration() = %v, want 0.5", got)
	}
	if got := (PCM16{}).Duration(); got != 0 {
		t.Errorf("zero Duration() = %v, want 0", got)
	}
}
