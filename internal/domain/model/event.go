// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// EventType is the closed set of event categories the pipeline distinguishes.
// Every provider label that is not a pass, shot or dribble maps to TypeOther.
type EventType uint8

// Event categories.
const (
	TypeOther EventType = iota
	TypePass
	TypeShot
	TypeDribble
)

// Provider labels for the tracked categories.
const (
	LabelPass    = "Pass"
	LabelShot    = "Shot"
	LabelDribble = "Dribble"
	LabelOther   = "Other"

	// OutcomeGoal marks a scored shot.
	OutcomeGoal = "Goal"
)

// TypeFromLabel maps a provider label onto the closed enumeration.
// Matching is exact; "pass" is not a Pass.
func TypeFromLabel(label string) EventType {
	switch label {
	case LabelPass:
		return TypePass
	case LabelShot:
		return TypeShot
	case LabelDribble:
		return TypeDribble
	default:
		return TypeOther
	}
}

// String returns the canonical label.
func (t EventType) String() string {
	switch t {
	case TypePass:
		return LabelPass
	case TypeShot:
		return LabelShot
	case TypeDribble:
		return LabelDribble
	default:
		return LabelOther
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown labels are rejected
// so persisted state cannot silently widen the vocabulary.
func (t *EventType) UnmarshalText(b []byte) error {
	s := string(b)
	if strings.EqualFold(s, LabelOther) {
		*t = TypeOther
		return nil
	}
	v := TypeFromLabel(s)
	if v == TypeOther {
		return fmt.Errorf("unknown event type %q", s)
	}
	*t = v
	return nil
}

// Point is a 2-D pitch coordinate in provider units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event is one recorded on-pitch action. Events are immutable once loaded.
type Event struct {
	ID       string    `json:"id"`
	Index    int       `json:"index"`
	Period   int       `json:"period"`
	Type     EventType `json:"kind"`
	TypeName string    `json:"type"` // provider label, e.g. "Carry"
	Team     string    `json:"team"`
	Player   string    `json:"player,omitempty"` // empty when not attributable
	Minute   int       `json:"minute"`
	Second   int       `json:"second"`

	Location        *Point `json:"location,omitempty"`
	PassEndLocation *Point `json:"pass_end_location,omitempty"`
	ShotOutcome     string `json:"shot_outcome,omitempty"`
}

// Clock returns the timestamp in total seconds since kickoff.
func (e *Event) Clock() int {
	return e.Minute*60 + e.Second
}

// HasPlayer reports whether the event is attributable to a player.
func (e *Event) HasPlayer() bool {
	return e.Player != ""
}

// IsGoal reports whether the event is a scored shot.
func (e *Event) IsGoal() bool {
	return e.Type == TypeShot && e.ShotOutcome == OutcomeGoal
}
