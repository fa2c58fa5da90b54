// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
)

func readAll(t *testing.T, data []byte) ([]float32, int, int) {
	t.Helper()

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	var out []float32
	buf := make([]float32, 3)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	return out, src.SampleRate(), src.Channels()
}

func TestDecoder_ReadsEncodedFile(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, math.MinInt16, 100, -100, 8, 9}
	art, err := Encode(samples, 22050, 2)
	if err != nil {
		t.Fatal(err)
	}

	got, rate, channels := readAll(t, art.Bytes())
	if rate != 22050 || channels != 2 {
		t.Errorf("format = %d Hz %d ch, want 22050 Hz 2 ch", rate, channels)
	}
	if len(got) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		want := float32(s) / 32768
		if math.Abs(float64(got[i]-want)) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	art, _ := Encode([]int16{1, 2, 3, 4}, 8000, 1)

	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(art.Bytes())))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", src.SampleRate())
	}
}

func TestDecoder_NotWav(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("definitely not a riff file at all....")))
	if !errors.Is(err, ErrNotWavFile) {
		t.Errorf("Decode() error = %v, want ErrNotWavFile", err)
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	art, _ := Encode(nil, 8000, 1)

	if !Match(art.Bytes()[:12]) {
		t.Error("Match() = false for an encoded WAV header")
	}
	if Match([]byte("RIFF\x00\x00\x00\x00AVI ")) {
		t.Error("Match() = true for a RIFF/AVI header")
	}
	if Match([]byte("RIFF")) {
		t.Error("Match() = true for a short header")
	}
}
