// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoding-side primitives used before analysis.
//
// # Source Interface
//
// Every decoder in formats/ returns a Source producing interleaved float32
// samples in [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// # Format Registry
//
// A Registry maps format keys to decoders. Decoders registered with a
// Matcher take part in content sniffing, so uploads can be decoded without
// trusting file names:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{}, wav.Match)
//	src, format, err := reg.Open(upload)
//
// # Mono Analysis Buffers
//
// The feature extractor works on mono float64 buffers. ReadMono drains a
// Source through a MonoMixer and optionally caps the sample rate:
//
//	samples, rate, err := audio.ReadMono(src, 22050)
//
// Resample is a buffer-level cubic resampler with a zero-phase low-pass
// applied before downsampling.
package audio
