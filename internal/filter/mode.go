// Filter mode and direction enums with closed dispatch
package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidMode is returned for a mode outside the closed enum and for
// directional input that maps to no mode. Callers must treat it as fatal
// for the requested switch; the engine never falls back to Passthrough.
var ErrInvalidMode = errors.New("filter: invalid filter mode")

// Mode identifies one of the four pixel mappings. The zero value is
// Retro4Tone, the signature look. Declaration order is cycle order.
type Mode int

const (
	Retro4Tone Mode = iota
	Monochrome
	Blocked
	Passthrough

	modeCount = 4
)

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m >= Retro4Tone && m < modeCount
}

// next returns the successor in cycle order, wrapping after Passthrough.
func (m Mode) next() Mode {
	return (m + 1) % modeCount
}

func (m Mode) String() string {
	switch m {
	case Retro4Tone:
		return "retro4tone"
	case Monochrome:
		return "monochrome"
	case Blocked:
		return "blocked"
	case Passthrough:
		return "passthrough"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Label returns the human-facing name used by the frontends.
func (m Mode) Label() string {
	switch m {
	case Retro4Tone:
		return "Retro 4-Tone"
	case Monochrome:
		return "Monochrome"
	case Blocked:
		return "Blocked"
	case Passthrough:
		return "Passthrough"
	}
	return m.String()
}

// ParseMode converts a config/CLI token into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "retro4tone":
		return Retro4Tone, nil
	case "monochrome":
		return Monochrome, nil
	case "blocked":
		return Blocked, nil
	case "passthrough":
		return Passthrough, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Modes returns the cycle order as a fresh slice.
func Modes() []Mode {
	return []Mode{Retro4Tone, Monochrome, Blocked, Passthrough}
}

// Direction is a directional selection gesture (arrow keys, d-pad).
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ModeForDirection maps a direction to its preset mode. Up, right, down
// and left cover the whole cycle set, one mode each.
func ModeForDirection(d Direction) (Mode, error) {
	switch d {
	case Up:
		return Retro4Tone, nil
	case Right:
		return Monochrome, nil
	case Down:
		return Blocked, nil
	case Left:
		return Passthrough, nil
	}
	return 0, fmt.Errorf("%w: direction %s", ErrInvalidMode, d)
}
