// SPDX-License-Identifier: EPL-2.0

// Package classify derives a voice profile from a feature vector using
// fixed, explainable rules. Nothing is learned: a gender score is summed
// from pitch, formant and centroid cues, an age score from pitch
// stability and spectral flatness, and eight 0..10 voice scores are
// linear maps of single features. Every threshold lives in Config.
package classify
