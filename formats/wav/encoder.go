// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	// HeaderSize is the size of the canonical RIFF/WAVE header.
	HeaderSize = 44

	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8
	formatPCM      = 1
)

// Header mirrors the fixed fields of a canonical PCM WAV header.
type Header struct {
	ChunkSize     uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// Artifact is an encoded WAV file. It is never modified after Encode
// returns it.
type Artifact struct {
	data []byte
}

// Bytes returns a copy of the encoded file.
func (a Artifact) Bytes() []byte {
	out := make([]byte, len(a.data))
	copy(out, a.data)

	return out
}

// Len is the total encoded size in bytes.
func (a Artifact) Len() int { return len(a.data) }

// WriteTo streams the encoded file to w.
func (a Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.data)
	if err != nil {
		return int64(n), fmt.Errorf("writing wav artifact: %w", err)
	}

	return int64(n), nil
}

// Header decodes the fixed header fields.
func (a Artifact) Header() Header {
	if len(a.data) < HeaderSize {
		return Header{}
	}

	return parseHeader(a.data[:HeaderSize])
}

// Encode serializes interleaved 16-bit samples into a canonical WAV file.
func Encode(samples []int16, sampleRate, channels int) (Artifact, error) {
	if err := validate(len(samples), sampleRate, channels); err != nil {
		return Artifact{}, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(samples)*bytesPerSample))
	if err := WriteWAV16(buf, sampleRate, channels, samples); err != nil {
		return Artifact{}, err
	}

	return Artifact{data: buf.Bytes()}, nil
}

func validate(count, sampleRate, channels int) error {
	switch {
	case sampleRate <= 0 || int64(sampleRate)*int64(max(channels, 1))*bytesPerSample > math.MaxUint32:
		return fmt.Errorf("%w (got %d)", ErrInvalidSampleRate, sampleRate)
	case channels < 1 || channels > math.MaxUint16:
		return fmt.Errorf("%w (got %d)", ErrInvalidChannels, channels)
	case count%channels != 0:
		return fmt.Errorf("%w (%d samples, %d channels)", ErrSampleCountMismatch, count, channels)
	case int64(count)*bytesPerSample > math.MaxUint32-36:
		return ErrDataTooLarge
	}

	return nil
}

func buildHeader(count, sampleRate, channels int) []byte {
	dataSize := uint32(count * bytesPerSample)
	header := make([]byte, HeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*channels*bytesPerSample))
	binary.LittleEndian.PutUint16(header[32:34], uint16(channels*bytesPerSample))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	return header
}

func parseHeader(h []byte) Header {
	return Header{
		ChunkSize:     binary.LittleEndian.Uint32(h[4:8]),
		AudioFormat:   binary.LittleEndian.Uint16(h[20:22]),
		NumChannels:   binary.LittleEndian.Uint16(h[22:24]),
		SampleRate:    binary.LittleEndian.Uint32(h[24:28]),
		ByteRate:      binary.LittleEndian.Uint32(h[28:32]),
		BlockAlign:    binary.LittleEndian.Uint16(h[32:34]),
		BitsPerSample: binary.LittleEndian.Uint16(h[34:36]),
		DataSize:      binary.LittleEndian.Uint32(h[40:44]),
	}
}

// WriteWAV16 streams a canonical 16-bit PCM WAV to w. samples are
// interleaved by channel.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if err := validate(len(samples), sampleRate, channels); err != nil {
		return err
	}

	if _, err := w.Write(buildHeader(len(samples), sampleRate, channels)); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}

	if len(samples) == 0 {
		return nil
	}

	const chunkSize = 8192
	buf := make([]byte, min(len(samples), chunkSize)*bytesPerSample)

	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		out := buf[:len(chunk)*bytesPerSample]

		for j, s := range chunk {
			binary.LittleEndian.PutUint16(out[j*2:], uint16(s))
		}

		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("writing wav samples: %w", err)
		}
	}

	return nil
}
