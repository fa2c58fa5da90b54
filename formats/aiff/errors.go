// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the input is not an AIFF container
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedBitDepth covers anything other than 8, 16, 24 or 32-bit PCM
	ErrUnsupportedBitDepth = errors.New("unsupported AIFF bit depth")

	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")
)
