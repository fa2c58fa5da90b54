// SPDX-License-Identifier: EPL-2.0

// Package wav encodes captured PCM into canonical RIFF/WAVE files and
// decodes WAV uploads.
//
// # Encoding
//
// Encode produces an immutable Artifact with the 44-byte header followed
// by little-endian 16-bit samples:
//
//	art, err := wav.Encode(samples, 44100, 1)
//	if errors.Is(err, wav.ErrInvalidInput) {
//	    // bad rate, channel count or partial frame
//	}
//
// WriteWAV16 streams the same bytes to any io.Writer. Failures of the
// writer are wrapped and never match ErrInvalidInput.
//
// # Reading
//
// ReadPCM16 accepts exactly the canonical layout Encode writes and
// recovers the samples bit for bit. Decoder goes through go-audio/wav and
// accepts any chunk order with 16, 24 or 32-bit integer PCM, returning an
// audio.Source for the analysis path.
package wav
