// SPDX-License-Identifier: EPL-2.0

package pcm

import "errors"

var (
	// ErrInvalidFormat marks a session created with an unusable sample
	// rate or channel count.
	ErrInvalidFormat = errors.New("invalid pcm format")
	// ErrStopped is returned when frames arrive after Stop.
	ErrStopped = errors.New("recording session stopped")
	// ErrReleased is returned when frames are requested after Release.
	ErrReleased = errors.New("recording session released")
)
