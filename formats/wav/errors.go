// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
)

var (
	ErrNotWavFile            = errors.New("not a WAV file")
	ErrUnsupportedWavLayout  = errors.New("unsupported WAV layout")
	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")
	ErrUnsupportedWavChunks  = errors.New("unsupported WAV chunks")
	ErrTruncated             = errors.New("truncated WAV data")

	// ErrInvalidInput is the parent of every caller error raised by the
	// encoder. Use errors.Is to tell them apart from I/O failures.
	ErrInvalidInput = errors.New("invalid WAV encoder input")

	ErrInvalidSampleRate   = fmt.Errorf("%w: sample rate must be positive", ErrInvalidInput)
	ErrInvalidChannels     = fmt.Errorf("%w: channel count must be between 1 and 65535", ErrInvalidInput)
	ErrSampleCountMismatch = fmt.Errorf("%w: sample count is not a multiple of the channel count", ErrInvalidInput)
	ErrDataTooLarge        = fmt.Errorf("%w: sample data exceeds the RIFF size limit", ErrInvalidInput)
)
