package keys

import (
	"time"

	"github.com/andymcblane/EinkPDA/internal/clock"
)

// DefaultCooldown is the minimum gap between two accepted keys.
const DefaultCooldown = 50 * time.Millisecond

// Source yields the next raw key, or KeyNone. It is told the current mode so
// a matrix source can pick the right layer.
type Source interface {
	Poll(mode Mode) Key
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(mode Mode) Key

// Poll calls f.
func (f SourceFunc) Poll(mode Mode) Key { return f(mode) }

// Event is an accepted key press.
type Event struct {
	Key  Key
	Mode Mode // mode after the key was applied
	At   time.Time
}

// Debouncer accepts at most one key per cooldown window and tracks the
// keypad mode.
//
// Keys polled inside the window are dropped, not queued.
type Debouncer struct {
	clock    clock.Clock
	cooldown time.Duration
	last     time.Time
	seen     bool
	mode     Mode
}

// NewDebouncer returns a debouncer in [ModeNormal].
func NewDebouncer(c clock.Clock, cooldown time.Duration) *Debouncer {
	return &Debouncer{clock: c, cooldown: cooldown}
}

// Poll reads one key from src.
//
// Shift and Fn toggle the mode and are reported as events so the caller
// can refresh a mode indicator. After a printable key, Shift drops back to
// normal, and so does Fn unless the key was a digit.
func (d *Debouncer) Poll(src Source) (Event, bool) {
	k := src.Poll(d.mode)
	if k == KeyNone {
		return Event{}, false
	}

	now := d.clock.Now()
	if d.seen && now.Sub(d.last) < d.cooldown {
		return Event{}, false
	}

	d.last = now
	d.seen = true

	switch {
	case k == KeyShift:
		d.toggle(ModeShift)
	case k == KeyFn:
		d.toggle(ModeFunc)
	case k.IsPrintable() && d.mode != ModeNormal:
		if d.mode == ModeShift || !k.IsDigit() {
			d.mode = ModeNormal
		}
	}

	return Event{Key: k, Mode: d.mode, At: now}, true
}

func (d *Debouncer) toggle(m Mode) {
	if d.mode == m {
		d.mode = ModeNormal

		return
	}

	d.mode = m
}

// Mode returns the current keypad mode.
func (d *Debouncer) Mode() Mode { return d.mode }

// SetMode forces the keypad mode.
func (d *Debouncer) SetMode(m Mode) { d.mode = m }

// ResetMode returns to [ModeNormal].
func (d *Debouncer) ResetMode() { d.mode = ModeNormal }
