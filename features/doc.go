// SPDX-License-Identifier: EPL-2.0

// Package features turns a mono sample buffer into a fixed acoustic
// feature Vector: pitch statistics, formant estimates, cepstral means,
// spectral descriptors, energy, tempo and harmonic/percussive balance.
//
// The numeric work is delegated to a Backend made of small capability
// interfaces. DefaultBackend wires the dsp package; tests and alternative
// implementations can replace any single capability.
//
//	ex := features.NewExtractor(features.DefaultConfig(), features.DefaultBackend())
//	v := ex.Extract(samples, 16000)
//	fmt.Println(v.PitchMedian, v.FormantF1Mean)
//
// Extract never fails. Silence, empty buffers and degenerate signals
// produce a fully populated Vector with documented defaults.
package features
