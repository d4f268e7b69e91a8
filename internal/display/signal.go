// Package display holds what the core hands to a renderer: the invalidation
// signal and a plain description of the current screen.
package display

import "sync/atomic"

// Signal is the only state shared between the core and the renderer.
// The core sets it; the renderer reads and clears it with Take.
// It is safe for concurrent use.
type Signal struct {
	state atomic.Uint32
}

const (
	flagRedraw uint32 = 1 << iota
	flagFull
)

// Invalidate requests a redraw. full asks for a slow full refresh instead
// of a partial update; a pending full request is never downgraded.
func (s *Signal) Invalidate(full bool) {
	bits := flagRedraw
	if full {
		bits |= flagFull
	}

	s.state.Or(bits)
}

// Take returns and clears the pending request.
func (s *Signal) Take() (redraw, full bool) {
	v := s.state.Swap(0)

	return v&flagRedraw != 0, v&flagFull != 0
}

// Pending reports whether a redraw is pending without clearing it.
func (s *Signal) Pending() bool {
	return s.state.Load()&flagRedraw != 0
}
