// SPDX-License-Identifier: EPL-2.0

// Package dsp holds the numeric routines behind feature extraction. It is
// built on gonum (dsp/fourier for transforms, stat and floats for
// reductions) and works on mono float64 buffers.
//
// # Framing
//
// Every frame-based routine uses centred frames: the signal is padded by
// half a frame on both sides, so n samples produce 1 + n/hop frames. The
// defaults are a 2048-point frame with a 512-sample hop.
//
//	frames := dsp.STFT(samples, dsp.DefaultNFFT, dsp.DefaultHop)
//	mag := dsp.Magnitude(frames)
//
// # Estimators
//
// PeakTracker and YIN estimate fundamental frequency, Spectral computes
// frame-wise descriptors, Mel produces mel spectrograms and cepstral
// coefficients, HPSS splits harmonic and percussive content and
// BeatTracker estimates a global tempo. All of them are plain values with
// exported parameters; the New* constructors return the defaults.
package dsp
