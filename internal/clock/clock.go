// Package clock supplies wall-clock time to the core and the fixed text
// formats dates and timestamps are stored in.
package clock

import (
	"sync"
	"time"
)

const (
	// DateLayout is the stored form of a calendar date: YYYYMMDD.
	DateLayout = "20060102"
	// TimestampLayout is the stored form of an instant: YYYYMMDDhhmmss.
	TimestampLayout = "20060102150405"
	// TimeLayout is the stored form of a time of day: HHMM.
	TimeLayout = "1504"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// System is the real wall clock.
type System struct{}

// Now returns time.Now in the local zone.
func (System) Now() time.Time { return time.Now() }

// Timestamp formats c.Now() as YYYYMMDDhhmmss.
func Timestamp(c Clock) string {
	return c.Now().Format(TimestampLayout)
}

// Manual is a settable clock for tests and scripted runs.
// Each call to Now advances it by Step (zero by default).
type Manual struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewManual returns a clock stopped at t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

// Now returns the current reading, then advances by the step.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.now
	m.now = m.now.Add(m.step)

	return t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set jumps to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// SetStep makes every Now call advance the clock by d.
func (m *Manual) SetStep(d time.Duration) {
	m.mu.Lock()
	m.step = d
	m.mu.Unlock()
}
