// SPDX-License-Identifier: EPL-2.0

package quality

import (
	"errors"
	"sync"
	"time"
)

// DefaultInterval is the sampling cadence used during capture.
const DefaultInterval = 500 * time.Millisecond

var (
	ErrAlreadyStarted = errors.New("quality monitor already started")
	ErrMonitorStopped = errors.New("quality monitor stopped")
)

// SpectrumSource yields the current byte-frequency snapshot. dst may be
// reused by the implementation and the filled slice is returned.
type SpectrumSource interface {
	ByteFrequencyData(dst []uint8) []uint8
}

// Summary aggregates every sample a monitor produced.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Last  Sample  `json:"last"`
	Tier  Tier    `json:"tier"`
	Mode  Mode    `json:"mode"`
}

// Monitor samples a SpectrumSource on a self-rescheduling timer while
// capture is active.
//
// Each tick holds the monitor lock while it checks the active flag,
// publishes and re-arms the timer, so once Stop returns no tick can
// publish again. Samples go to a buffered channel; when the consumer
// falls behind, readings are dropped rather than stalling capture.
type Monitor struct {
	src      SpectrumSource
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	active  bool
	stopped bool
	timer   *time.Timer
	out     chan Sample
	bins    []uint8
	count   int
	sum     float64
	last    Sample
}

// NewMonitor creates an idle monitor. A non-positive interval selects
// DefaultInterval.
func NewMonitor(src SpectrumSource, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Monitor{
		src:      src,
		interval: interval,
		now:      time.Now,
		out:      make(chan Sample, 16),
	}
}

// Samples delivers readings until Stop closes the channel.
func (m *Monitor) Samples() <-chan Sample { return m.out }

// Start arms the first tick. A monitor runs once: restarting after Stop
// fails with ErrMonitorStopped.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.stopped:
		return ErrMonitorStopped
	case m.active:
		return ErrAlreadyStarted
	}

	m.active = true
	m.timer = time.AfterFunc(m.interval, m.tick)

	return nil
}

// Stop cancels the pending tick and closes the sample channel. It is safe
// to call more than once and before Start.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}

	m.active = false
	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
	}
	close(m.out)
}

// Active reports whether ticks are still being scheduled.
func (m *Monitor) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.active
}

func (m *Monitor) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return
	}

	m.bins = m.src.ByteFrequencyData(m.bins)
	s := Measure(m.bins, m.now())

	m.count++
	m.sum += s.Score
	m.last = s

	select {
	case m.out <- s:
	default:
	}

	m.timer = time.AfterFunc(m.interval, m.tick)
}

// Last returns the most recent reading.
func (m *Monitor) Last() (Sample, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.last, m.count > 0
}

// Summary reports the mean score and the tier and mode it maps to. With no
// readings the summary carries the floor score of 1.
func (m *Monitor) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	mean := 1.0
	if m.count > 0 {
		mean = m.sum / float64(m.count)
	}
	tier, mode := Classify(mean)

	return Summary{Count: m.count, Mean: mean, Last: m.last, Tier: tier, Mode: mode}
}
