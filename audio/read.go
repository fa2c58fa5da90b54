// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// ReadMono drains src, mixes it to mono and returns the samples as float64
// together with their sample rate. When maxRate is positive and the source
// runs faster, the result is downsampled to maxRate.
func ReadMono(src Source, maxRate int) ([]float64, int, error) {
	rate := src.SampleRate()
	if rate <= 0 {
		return nil, 0, ErrInvalidRate
	}

	mono := NewMonoMixer(src)
	bufSize := src.BufSize()
	if bufSize <= 0 {
		bufSize = 4096
	}

	buf := make([]float32, bufSize)
	out := make([]float64, 0, rate)

	for {
		n, err := mono.ReadSamples(buf)
		for _, v := range buf[:n] {
			out = append(out, float64(v))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rate, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			break
		}
	}

	if maxRate > 0 && rate > maxRate {
		return Resample(out, rate, maxRate), maxRate, nil
	}

	return out, rate, nil
}
