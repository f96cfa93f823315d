// Package input holds the state shared between the asynchronous input
// context (encoder callbacks, key handlers) and the UI polling loop.
// Every field has exactly one writer and is accessed atomically.
package input

import (
	"sync/atomic"
	"time"
)

// DefaultDebounce ignores button presses this soon after the last interaction
const DefaultDebounce = 250 * time.Millisecond

// State is the shared selection/redraw/button state
type State struct {
	selection       atomic.Int32
	limit           atomic.Int32 // number of selectable entries
	redraw          atomic.Bool
	pressed         atomic.Bool
	lastInteraction atomic.Int64 // unix nanoseconds

	linesPerScreen int32
	debounce       time.Duration
}

// NewState creates state for a list shown linesPerScreen entries at a time
func NewState(linesPerScreen int, debounce time.Duration) *State {
	if linesPerScreen < 1 {
		linesPerScreen = 1
	}
	return &State{
		linesPerScreen: int32(linesPerScreen),
		debounce:       debounce,
	}
}

// SetLimit sets the number of entries, resets the selection to the top and
// requests a redraw.
func (s *State) SetLimit(n int) {
	if n < 0 {
		n = 0
	}
	s.limit.Store(int32(n))
	s.selection.Store(0)
	s.redraw.Store(true)
}

// Limit returns the number of entries
func (s *State) Limit() int {
	return int(s.limit.Load())
}

// Rotate moves the selection by delta with wrap-around. Crossing a page
// boundary requests a redraw. Rotation cancels a pending button press.
func (s *State) Rotate(delta int, now time.Time) {
	limit := s.limit.Load()
	if limit == 0 {
		return
	}
	for {
		old := s.selection.Load()
		next := (old + int32(delta)%limit + limit) % limit
		if s.selection.CompareAndSwap(old, next) {
			if old/s.linesPerScreen != next/s.linesPerScreen {
				s.redraw.Store(true)
			}
			break
		}
	}
	s.pressed.Store(false)
	s.lastInteraction.Store(now.UnixNano())
}

// Press registers a button press unless it comes within the debounce window
// of the previous interaction or a press is already pending. It reports
// whether the press was accepted.
func (s *State) Press(now time.Time) bool {
	last := s.lastInteraction.Load()
	if last != 0 && now.Sub(time.Unix(0, last)) <= s.debounce {
		return false
	}
	if !s.pressed.CompareAndSwap(false, true) {
		return false
	}
	s.lastInteraction.Store(now.UnixNano())
	return true
}

// Select jumps to entry i, clamped to the list
func (s *State) Select(i int) {
	limit := int(s.limit.Load())
	if limit == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= limit {
		i = limit - 1
	}
	s.selection.Store(int32(i))
	s.redraw.Store(true)
}

// TakePress consumes a pending press
func (s *State) TakePress() bool {
	return s.pressed.CompareAndSwap(true, false)
}

// RequestRedraw asks the UI to repaint the whole list
func (s *State) RequestRedraw() {
	s.redraw.Store(true)
}

// TakeRedraw consumes a pending redraw request
func (s *State) TakeRedraw() bool {
	return s.redraw.CompareAndSwap(true, false)
}

// Selection returns the selected entry index
func (s *State) Selection() int {
	return int(s.selection.Load())
}

// Page returns the index of the first entry on the selected page
func (s *State) Page() int {
	return int(s.selection.Load()/s.linesPerScreen) * int(s.linesPerScreen)
}

// LinesPerScreen returns the page size
func (s *State) LinesPerScreen() int {
	return int(s.linesPerScreen)
}

// LastInteraction returns when the encoder or button was last used
func (s *State) LastInteraction() time.Time {
	last := s.lastInteraction.Load()
	if last == 0 {
		return time.Time{}
	}
	return time.Unix(0, last)
}
