// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestEncode_HeaderFields(t *testing.T) {
	t.Parallel()

	art, err := Encode([]int16{0, math.MinInt16}, 8000, 1)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	data := art.Bytes()
	if len(data) != 48 {
		t.Fatalf("len = %d, want 48", len(data))
	}

	for _, m := range []struct {
		off  int
		want string
	}{{0, "RIFF"}, {8, "WAVE"}, {12, "fmt "}, {36, "data"}} {
		if got := string(data[m.off : m.off+4]); got != m.want {
			t.Errorf("marker at %d = %q, want %q", m.off, got, m.want)
		}
	}

	want := Header{
		ChunkSize:     40,
		AudioFormat:   1,
		NumChannels:   1,
		SampleRate:    8000,
		ByteRate:      16000,
		BlockAlign:    2,
		BitsPerSample: 16,
		DataSize:      4,
	}
	if got := art.Header(); got != want {
		t.Errorf("Header() = %+v, want %+v", got, want)
	}
	if got := binary.LittleEndian.Uint32(data[16:20]); got != 16 {
		t.Errorf("Subchunk1Size = %d, want 16", got)
	}

	if !bytes.Equal(data[44:], []byte{0x00, 0x00, 0x00, 0x80}) {
		t.Errorf("sample bytes = % x, want 00 00 00 80", data[44:])
	}
}

func TestEncode_Stereo(t *testing.T) {
	t.Parallel()

	art, err := Encode([]int16{1, 2, 3, 4, 5, 6}, 44100, 2)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	h := art.Header()
	if h.NumChannels != 2 || h.BlockAlign != 4 || h.ByteRate != 176400 || h.DataSize != 12 || h.ChunkSize != 48 {
		t.Errorf("Header() = %+v", h)
	}
	if art.Len() != HeaderSize+12 {
		t.Errorf("Len() = %d, want %d", art.Len(), HeaderSize+12)
	}
}

func TestEncode_Empty(t *testing.T) {
	t.Parallel()

	art, err := Encode(nil, 16000, 1)
	if err != nil {
		t.Fatalf("Encode(nil) error = %v", err)
	}
	if art.Len() != HeaderSize {
		t.Errorf("Len() = %d, want %d", art.Len(), HeaderSize)
	}
	if h := art.Header(); h.ChunkSize != 36 || h.DataSize != 0 {
		t.Errorf("Header() = %+v, want ChunkSize 36 and DataSize 0", h)
	}
}

func TestEncode_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		samples  []int16
		rate     int
		channels int
		want     error
	}{
		{name: "zero rate", rate: 0, channels: 1, want: ErrInvalidSampleRate},
		{name: "negative rate", rate: -1, channels: 1, want: ErrInvalidSampleRate},
		{name: "zero channels", rate: 8000, channels: 0, want: ErrInvalidChannels},
		{name: "too many channels", rate: 8000, channels: 1 << 16, want: ErrInvalidChannels},
		{name: "partial frame", samples: []int16{1, 2, 3}, rate: 8000, channels: 2, want: ErrSampleCountMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Encode(tt.samples, tt.rate, tt.channels)
			if !errors.Is(err, tt.want) {
				t.Errorf("Encode() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Encode() error = %v, want it to match ErrInvalidInput", err)
			}
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	t.Parallel()

	samples := []int16{7, -7, 300, -300}
	a, _ := Encode(samples, 22050, 2)
	b, _ := Encode(samples, 22050, 2)

	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("Encode() is not deterministic")
	}
}

func TestArtifact_BytesIsCopy(t *testing.T) {
	t.Parallel()

	art, _ := Encode([]int16{1}, 8000, 1)
	b := art.Bytes()
	b[0] = 'X'

	if string(art.Bytes()[:4]) != "RIFF" {
		t.Error("mutating Bytes() changed the artifact")
	}
}

type failWriter struct {
	after int
	n     int
}

var errWrite = errors.New("disk full")

func (w *failWriter) Write(p []byte) (int, error) {
	if w.n >= w.after {
		return 0, errWrite
	}
	w.n++
	return len(p), nil
}

func TestWriteWAV16_WriterFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		after int
	}{
		{name: "header", after: 0},
		{name: "samples", after: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := WriteWAV16(&failWriter{after: tt.after}, 8000, 1, []int16{1, 2, 3})
			if !errors.Is(err, errWrite) {
				t.Errorf("WriteWAV16() error = %v, want %v", err, errWrite)
			}
			if errors.Is(err, ErrInvalidInput) {
				t.Error("writer failure must not be reported as a caller error")
			}
		})
	}
}

func TestWriteWAV16_LargeChunks(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 20000)
	for i := range samples {
		samples[i] = int16(i)
	}

	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 8000, 1, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	data := buf.Bytes()
	for _, i := range []int{0, 8191, 8192, 16384, 19999} {
		got := int16(binary.LittleEndian.Uint16(data[HeaderSize+2*i:]))
		if got != samples[i] {
			t.Errorf("sample %d = %d, want %d", i, got, samples[i])
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	samples := make([]int16, 44100)

	b.ReportAllocs()
	for range b.N {
		if _, err := Encode(samples, 44100, 1); err != nil {
			b.Fatal(err)
		}
	}
}
