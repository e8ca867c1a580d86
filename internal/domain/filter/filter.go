// Package filter implements the event filter pipeline: time window, event type,
// player set and truncation, applied in that order.
package filter

import "github.com/okian/pitchside/internal/domain/model"

// Spec is one filter submission. It is built fresh per submission.
type Spec struct {
	Window     Window
	Selector   Selector
	Players    []string // one or two identities; empty identities never match
	MaxResults int
}

// Apply runs the pipeline over events and returns the survivors in input order.
// events is never mutated and the result never aliases it. The result is empty,
// not nil, when nothing survives or MaxResults <= 0.
func Apply(events []model.Event, spec Spec) []model.Event {
	out := make([]model.Event, 0)
	if spec.MaxResults <= 0 {
		return out
	}
	for i := range events {
		e := &events[i]
		if !spec.Window.Contains(e.Clock()) {
			continue
		}
		if !spec.Selector.Match(e.Type) {
			continue
		}
		if !containsPlayer(spec.Players, e.Player) {
			continue
		}
		out = append(out, *e)
		if len(out) == spec.MaxResults {
			break
		}
	}
	return out
}

// ByWindow is the time-window pass on its own.
func ByWindow(events []model.Event, w Window) []model.Event {
	return keep(events, func(e *model.Event) bool { return w.Contains(e.Clock()) })
}

// ByType is the event-type pass on its own.
func ByType(events []model.Event, s Selector) []model.Event {
	return keep(events, func(e *model.Event) bool { return s.Match(e.Type) })
}

// ByPlayers is the player pass on its own.
func ByPlayers(events []model.Event, players []string) []model.Event {
	return keep(events, func(e *model.Event) bool { return containsPlayer(players, e.Player) })
}

// Truncate keeps the first n events in order. n <= 0 yields an empty slice.
func Truncate(events []model.Event, n int) []model.Event {
	if n <= 0 {
		return make([]model.Event, 0)
	}
	if n > len(events) {
		n = len(events)
	}
	out := make([]model.Event, n)
	copy(out, events[:n])
	return out
}

func keep(events []model.Event, pred func(*model.Event) bool) []model.Event {
	out := make([]model.Event, 0)
	for i := range events {
		if pred(&events[i]) {
			out = append(out, events[i])
		}
	}
	return out
}

func containsPlayer(players []string, player string) bool {
	if player == "" {
		return false
	}
	for _, p := range players {
		if p == player {
			return true
		}
	}
	return false
}
