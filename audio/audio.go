// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// SniffLen is the number of leading bytes handed to a Matcher.
const SniffLen = 12

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Matcher reports whether header (up to SniffLen bytes) starts a stream
// the associated decoder understands.
type Matcher func(header []byte) bool

type entry struct {
	format  string
	decoder Decoder
	match   Matcher
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
// Formats registered with a Matcher take part in content detection, in
// registration order.
type Registry struct {
	codecs []entry

	mtx sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds or replaces the decoder for format. match may be nil.
func (r *Registry) Register(format string, d Decoder, match Matcher) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for i := range r.codecs {
		if r.codecs[i].format == format {
			r.codecs[i] = entry{format: format, decoder: d, match: match}
			return
		}
	}

	r.codecs = append(r.codecs, entry{format: format, decoder: d, match: match})
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	for _, e := range r.codecs {
		if e.format == format {
			return e.decoder, true
		}
	}

	return nil, false
}

// Formats lists the registered format keys.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]string, 0, len(r.codecs))
	for _, e := range r.codecs {
		out = append(out, e.format)
	}

	return out
}

// Detect returns the first format whose Matcher accepts header.
func (r *Registry) Detect(header []byte) (string, Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	for _, e := range r.codecs {
		if e.match != nil && e.match(header) {
			return e.format, e.decoder, true
		}
	}

	return "", nil, false
}

// Open sniffs the beginning of rd and decodes it with the matching decoder.
// The detected format key is returned alongside the source.
func (r *Registry) Open(rd io.Reader) (Source, string, error) {
	br := bufio.NewReader(rd)

	header, err := br.Peek(SniffLen)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("sniffing header: %w", err)
	}
	if len(header) == 0 {
		return nil, "", ErrEmptyInput
	}

	format, dec, ok := r.Detect(header)
	if !ok {
		return nil, "", ErrUnknownFormat
	}

	src, err := dec.Decode(br)
	if err != nil {
		return nil, format, fmt.Errorf("decoding %s: %w", format, err)
	}

	return src, format, nil
}
