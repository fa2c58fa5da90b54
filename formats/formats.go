// SPDX-License-Identifier: EPL-2.0

// Package formats wires every bundled decoder into one sniffing registry.
package formats

import (
	"io"

	"github.com/ik5/voxprofile/audio"
	"github.com/ik5/voxprofile/formats/aiff"
	"github.com/ik5/voxprofile/formats/mp3"
	"github.com/ik5/voxprofile/formats/vorbis"
	"github.com/ik5/voxprofile/formats/wav"
)

// Format keys used by the default registry.
const (
	WAV    = "wav"
	MP3    = "mp3"
	Vorbis = "ogg"
	AIFF   = "aiff"
)

// NewRegistry returns a registry with wav, mp3, ogg vorbis and aiff
// decoders, detected in that order.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(WAV, wav.Decoder{}, wav.Match)
	reg.Register(AIFF, aiff.Decoder{}, aiff.Match)
	reg.Register(Vorbis, vorbis.Decoder{}, vorbis.Match)
	reg.Register(MP3, mp3.Decoder{}, mp3.Match)

	return reg
}

var defaultRegistry = NewRegistry()

// Decode sniffs r and decodes it with the default registry.
func Decode(r io.Reader) (audio.Source, string, error) {
	return defaultRegistry.Open(r)
}
