// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 layer III uploads via github.com/hajimehoshi/go-mp3.
// The decoder always yields interleaved stereo; downmix with audio.MonoMixer.
package mp3
