// Selector state for the active mode and performance flag
package filter

import (
	"fmt"
	"sync"
)

// Selector owns the active filter mode and the performance flag. All
// methods are safe for concurrent use; the engine takes one Snapshot
// per tick so a switch mid-tick shows up a frame late at most.
type Selector struct {
	mu          sync.Mutex
	mode        Mode
	performance bool
}

// NewSelector creates a selector starting at the given mode.
func NewSelector(start Mode) (*Selector, error) {
	if !start.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(start))
	}
	return &Selector{mode: start}, nil
}

// CycleNext advances to the next mode in cycle order, wrapping from
// Passthrough back to Retro4Tone, and returns the new mode.
func (s *Selector) CycleNext() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = s.mode.next()
	return s.mode
}

// SelectDirection switches to the mode mapped to the direction. On an
// unmapped direction it returns ErrInvalidMode and leaves the active
// mode unchanged.
func (s *Selector) SelectDirection(d Direction) (Mode, error) {
	m, err := ModeForDirection(d)
	if err != nil {
		return s.Mode(), err
	}
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
	return m, nil
}

// SetMode switches directly to the given mode.
func (s *Selector) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
	return nil
}

// Mode returns the active mode.
func (s *Selector) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetPerformanceMode sets the reduced-work flag read by the transforms.
func (s *Selector) SetPerformanceMode(on bool) {
	s.mu.Lock()
	s.performance = on
	s.mu.Unlock()
}

// PerformanceMode returns the current performance flag.
func (s *Selector) PerformanceMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.performance
}

// TogglePerformanceMode flips the flag and returns the new value.
func (s *Selector) TogglePerformanceMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.performance = !s.performance
	return s.performance
}

// Snapshot returns one consistent (mode, performance) pair for a tick.
func (s *Selector) Snapshot() (Mode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode, s.performance
}
