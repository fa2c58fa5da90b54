// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/voxprofile/utils"
)

// Session accumulates the fixed-point frames of one capture.
//
// Frames are stored in arrival order and concatenated without gaps.
// One goroutine may append while others read.
type Session struct {
	id         string
	sampleRate int
	channels   int

	mu        sync.RWMutex
	chunks    [][]int16
	total     int
	startedAt time.Time
	stoppedAt time.Time
	released  bool

	// transcript is opaque text supplied by the caller at stop time.
	transcript string
}

// New starts a session. sampleRate must be positive and channels at least 1.
func New(sampleRate, channels int) (*Session, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidFormat, sampleRate)
	}
	if channels < 1 || channels > 0xFFFF {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidFormat, channels)
	}

	return &Session{
		id:         uuid.NewString(),
		sampleRate: sampleRate,
		channels:   channels,
		startedAt:  time.Now(),
	}, nil
}

func (s *Session) ID() string           { return s.id }
func (s *Session) SampleRate() int      { return s.sampleRate }
func (s *Session) Channels() int        { return s.channels }
func (s *Session) StartedAt() time.Time { return s.startedAt }

// StoppedAt is zero while the session is active.
func (s *Session) StoppedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stoppedAt
}

// Append converts normalized samples and appends them as one frame chunk.
func (s *Session) Append(frame []float32) error {
	if len(frame) == 0 {
		return s.check()
	}

	return s.push(utils.Float32sToInt16s(nil, frame))
}

// AppendPCM appends already converted samples. The slice is copied.
func (s *Session) AppendPCM(frame []int16) error {
	if len(frame) == 0 {
		return s.check()
	}

	chunk := make([]int16, len(frame))
	copy(chunk, frame)

	return s.push(chunk)
}

func (s *Session) push(chunk []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(); err != nil {
		return err
	}

	s.chunks = append(s.chunks, chunk)
	s.total += len(chunk)

	return nil
}

func (s *Session) check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.checkLocked()
}

func (s *Session) checkLocked() error {
	switch {
	case s.released:
		return ErrReleased
	case !s.stoppedAt.IsZero():
		return ErrStopped
	}

	return nil
}

// Len is the number of interleaved samples held.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.total
}

// Duration of the captured audio.
func (s *Session) Duration() time.Duration {
	n := s.Len() / s.channels
	return time.Duration(n) * time.Second / time.Duration(s.sampleRate)
}

// Samples returns every captured sample as one contiguous slice.
func (s *Session) Samples() ([]int16, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.released {
		return nil, ErrReleased
	}

	out := make([]int16, 0, s.total)
	for _, c := range s.chunks {
		out = append(out, c...)
	}

	return out, nil
}

// Tail returns up to n of the most recent samples, normalized to [-1, 1].
// It feeds the realtime analyser and never fails; a released session
// yields nil.
func (s *Session) Tail(n int) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.released || n <= 0 {
		return nil
	}

	n = min(n, s.total)
	out := make([]float64, n)

	i := n
	for c := len(s.chunks) - 1; c >= 0 && i > 0; c-- {
		chunk := s.chunks[c]
		for j := len(chunk) - 1; j >= 0 && i > 0; j-- {
			i--
			out[i] = utils.Int16ToFloat64(chunk[j])
		}
	}

	return out
}

// Stop marks the end of capture. Calling it again keeps the first stop time.
func (s *Session) Stop(transcript string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stoppedAt.IsZero() {
		s.stoppedAt = time.Now()
		s.transcript = transcript
	}
}

// Stopped reports whether Stop was called.
func (s *Session) Stopped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return !s.stoppedAt.IsZero()
}

// Transcript returns the text recorded by Stop.
func (s *Session) Transcript() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.transcript
}

// Release drops the captured frames. The session cannot be read afterwards.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = nil
	s.total = 0
	s.released = true
}
