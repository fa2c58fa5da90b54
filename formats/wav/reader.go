// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// PCM16 is a fully decoded canonical WAV file.
type PCM16 struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []int16
}

// Duration in seconds.
func (p PCM16) Duration() float64 {
	if p.SampleRate <= 0 || p.Channels <= 0 {
		return 0
	}

	return float64(len(p.Samples)/p.Channels) / float64(p.SampleRate)
}

// ReadPCM16 parses the exact layout produced by Encode: a 44-byte header
// followed by the data chunk. Anything else is rejected rather than
// guessed at; use Decoder for files from other writers.
func ReadPCM16(r io.Reader) (PCM16, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return PCM16{}, ErrNotWavFile
		}
		return PCM16{}, fmt.Errorf("reading wav header: %w", err)
	}

	if !bytes.Equal(header[:4], []byte("RIFF")) || !bytes.Equal(header[8:12], []byte("WAVE")) {
		return PCM16{}, ErrNotWavFile
	}
	if !bytes.Equal(header[12:16], []byte("fmt ")) || binary.LittleEndian.Uint32(header[16:20]) != 16 {
		return PCM16{}, ErrUnsupportedWavLayout
	}
	if !bytes.Equal(header[36:40], []byte("data")) {
		return PCM16{}, ErrUnsupportedWavChunks
	}

	h := parseHeader(header)
	if h.AudioFormat != formatPCM || h.BitsPerSample != bitsPerSample {
		return PCM16{}, ErrOnlyPCM16bitSupported
	}
	if h.NumChannels == 0 || h.DataSize%bytesPerSample != 0 {
		return PCM16{}, ErrUnsupportedWavLayout
	}

	data := make([]byte, h.DataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return PCM16{}, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	samples := make([]int16, len(data)/bytesPerSample)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}

	return PCM16{
		SampleRate: int(h.SampleRate),
		Channels:   int(h.NumChannels),
		BitDepth:   int(h.BitsPerSample),
		Samples:    samples,
	}, nil
}
