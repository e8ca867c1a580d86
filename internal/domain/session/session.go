// Package session holds the explicit per-user dashboard state: the current match
// selection and the last submitted filter form.
package session

import (
	"strconv"
	"time"

	"github.com/okian/pitchside/internal/domain/filter"
)

// State is the serializable dashboard state of one user session.
type State struct {
	ID          string    `json:"id"`
	MatchID     int       `json:"match_id"`
	MaxResults  int       `json:"max_results"`
	WindowStart string    `json:"window_start"`
	WindowEnd   string    `json:"window_end"`
	Player1     string    `json:"player1"`
	Player2     string    `json:"player2"`
	EventType   string    `json:"event_type"`
	Compare     bool      `json:"compare"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Form defaults.
const (
	DefaultMaxResults  = 100
	DefaultWindowStart = "00:00"
	DefaultWindowEnd   = "90:00"
	DefaultEventType   = "all"
)

// Config carries the configurable form defaults.
type Config struct {
	MaxResults  int
	WindowStart string
	WindowEnd   string
}

func (c Config) withFallbacks() Config {
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.WindowStart == "" {
		c.WindowStart = DefaultWindowStart
	}
	if c.WindowEnd == "" {
		c.WindowEnd = DefaultWindowEnd
	}
	return c
}

// Defaults seeds a fresh state for matchID. The first two players of the match
// preselect the two player slots; a match with one player fills both with it.
func Defaults(id string, matchID int, players []string, cfg Config, now time.Time) State {
	cfg = cfg.withFallbacks()
	s := State{
		ID:          id,
		MatchID:     matchID,
		MaxResults:  cfg.MaxResults,
		WindowStart: cfg.WindowStart,
		WindowEnd:   cfg.WindowEnd,
		EventType:   DefaultEventType,
		UpdatedAt:   now,
	}
	switch {
	case len(players) >= 2:
		s.Player1, s.Player2 = players[0], players[1]
	case len(players) == 1:
		s.Player1, s.Player2 = players[0], players[0]
	}
	return s
}

// Form is a filter submission. Zero values keep the current state.
type Form struct {
	MaxResults  *int    `json:"max_results,omitempty"`
	WindowStart *string `json:"window_start,omitempty"`
	WindowEnd   *string `json:"window_end,omitempty"`
	Player1     *string `json:"player1,omitempty"`
	Player2     *string `json:"player2,omitempty"`
	EventType   *string `json:"event_type,omitempty"`
	Compare     *bool   `json:"compare,omitempty"`
}

// Apply returns a copy of s with the submitted fields replaced.
func (s State) Apply(f Form, now time.Time) State {
	if f.MaxResults != nil {
		s.MaxResults = *f.MaxResults
	}
	if f.WindowStart != nil {
		s.WindowStart = *f.WindowStart
	}
	if f.WindowEnd != nil {
		s.WindowEnd = *f.WindowEnd
	}
	if f.Player1 != nil {
		s.Player1 = *f.Player1
	}
	if f.Player2 != nil {
		s.Player2 = *f.Player2
	}
	if f.EventType != nil {
		s.EventType = *f.EventType
	}
	if f.Compare != nil {
		s.Compare = *f.Compare
	}
	s.UpdatedAt = now
	return s
}

// Players returns the selected identities, dropping empties and a duplicate second slot.
func (s State) Players() []string {
	out := make([]string, 0, 2)
	if s.Player1 != "" {
		out = append(out, s.Player1)
	}
	if s.Player2 != "" && s.Player2 != s.Player1 {
		out = append(out, s.Player2)
	}
	return out
}

// Spec validates the state and builds the filter spec it describes.
// maxCap bounds MaxResults from above.
func (s State) Spec(maxCap int) (filter.Spec, error) {
	if maxCap <= 0 {
		maxCap = DefaultMaxResults
	}
	if s.MaxResults < 1 || s.MaxResults > maxCap {
		return filter.Spec{}, &filter.ConfigurationError{
			Field:  filter.FieldMaxResults,
			Value:  strconv.Itoa(s.MaxResults),
			Reason: "must be between 1 and " + strconv.Itoa(maxCap),
		}
	}
	w, err := filter.ParseWindow(s.WindowStart, s.WindowEnd)
	if err != nil {
		return filter.Spec{}, err
	}
	sel, err := filter.ParseSelector(s.EventType)
	if err != nil {
		return filter.Spec{}, err
	}
	players := s.Players()
	if len(players) == 0 {
		return filter.Spec{}, &filter.ConfigurationError{
			Field:  filter.FieldPlayers,
			Reason: "at least one player is required",
		}
	}
	return filter.Spec{
		Window:     w,
		Selector:   sel,
		Players:    players,
		MaxResults: s.MaxResults,
	}, nil
}
