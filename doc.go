// SPDX-License-Identifier: EPL-2.0

// Package voxprofile turns short speech recordings into encoded WAV
// artifacts and deterministic voice profiles.
//
// The package glues together the capture-side and analysis-side
// subpackages:
//
//   - pcm accumulates fixed-point frames of a recording session
//   - formats/wav encodes them into a canonical 44-byte-header WAV file
//   - quality scores live byte-frequency snapshots during capture
//   - features extracts the acoustic feature vector of a clip
//   - classify derives gender, age bracket and voice scores from it
//
// # Supported Upload Formats
//
// Clips that were not captured live can be analysed from files:
//   - WAV (PCM 16/24/32-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF/AIFC via formats/aiff
//
// formats.Decode sniffs the content and picks the decoder.
//
// # Quick Start
//
// Analysing a file:
//
//	file, _ := os.Open("clip.mp3")
//	src, _, _ := formats.Decode(file)
//	defer src.Close()
//
//	res, err := voxprofile.AnalyzeSource(src)
//	fmt.Println(res.Profile.Gender, res.Profile.Scores.Bass)
//
// Finishing a live capture:
//
//	s, _ := pcm.New(16000, 1)
//	s.Append(frame) // repeatedly, as audio arrives
//	s.Stop(transcript)
//
//	rec, err := voxprofile.Finish(s)
//	rec.WAV.WriteTo(out)
//
// Finish encodes and analyses concurrently and releases the session frames
// once both are done.
//
// # Tuning
//
// A Pipeline carries the extractor, the classifier rule table and the
// highest sample rate used for analysis. Inputs above that rate are
// downsampled first; the encoded WAV always keeps the captured rate.
//
//	p := voxprofile.New(
//	    voxprofile.WithMaxSampleRate(16000),
//	    voxprofile.WithClassifier(cfg),
//	)
package voxprofile
