package filter

import (
	"strings"

	"github.com/okian/pitchside/internal/domain/model"
)

// Selector picks which event categories survive the type pass.
type Selector uint8

// Selectors.
const (
	SelectAll Selector = iota
	SelectPasses
	SelectShots
)

// String returns the wire name.
func (s Selector) String() string {
	switch s {
	case SelectPasses:
		return "passes"
	case SelectShots:
		return "shots"
	default:
		return "all"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Selector) UnmarshalText(b []byte) error {
	v, err := ParseSelector(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSelector accepts passes/shots/all case-insensitively, plus the labels the
// original dashboard radio used (Passes, Chutes, Todos).
func ParseSelector(s string) (Selector, error) {
	switch strings.ToLower(s) {
	case "all", "todos":
		return SelectAll, nil
	case "passes", "pass":
		return SelectPasses, nil
	case "shots", "shot", "chutes":
		return SelectShots, nil
	default:
		return SelectAll, configErr(FieldEventType, s, "expected passes, shots or all")
	}
}

// Match reports whether an event category passes the selector.
func (s Selector) Match(t model.EventType) bool {
	switch s {
	case SelectPasses:
		return t == model.TypePass
	case SelectShots:
		return t == model.TypeShot
	default:
		return true
	}
}
