// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF uploads via github.com/go-audio/aiff.
//
// Big-endian integer PCM at 8, 16, 24 and 32 bits is normalized to
// float32 samples in [-1, 1].
package aiff
