// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrEmptyInput    = errors.New("empty audio input")
	ErrUnknownFormat = errors.New("unrecognized audio format")
	ErrInvalidRate   = errors.New("sample rate must be positive")
)
