package stats

import (
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/types"
)

// Players returns the distinct non-empty players in order of first appearance.
func Players(events []model.Event) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range events {
		p := events[i].Player
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// ByPlayer returns the events of one player in input order.
func ByPlayer(events []model.Event, player string) []model.Event {
	out := make([]model.Event, 0)
	if player == "" {
		return out
	}
	for i := range events {
		if events[i].Player == player {
			out = append(out, events[i])
		}
	}
	return out
}

// PassVectors returns the passes that carry both a start and an end location.
func PassVectors(events []model.Event) []types.PassVector {
	out := make([]types.PassVector, 0)
	for i := range events {
		e := &events[i]
		if e.Type != model.TypePass || e.Location == nil || e.PassEndLocation == nil {
			continue
		}
		out = append(out, types.PassVector{
			Player: e.Player,
			Team:   e.Team,
			From:   *e.Location,
			To:     *e.PassEndLocation,
		})
	}
	return out
}

// ShotPoints returns the shots that carry a location.
func ShotPoints(events []model.Event) []types.ShotPoint {
	out := make([]types.ShotPoint, 0)
	for i := range events {
		e := &events[i]
		if e.Type != model.TypeShot || e.Location == nil {
			continue
		}
		out = append(out, types.ShotPoint{
			Player:  e.Player,
			Team:    e.Team,
			At:      *e.Location,
			Outcome: e.ShotOutcome,
		})
	}
	return out
}

// PitchOf bundles PassVectors and ShotPoints.
func PitchOf(events []model.Event) types.Pitch {
	return types.Pitch{Passes: PassVectors(events), Shots: ShotPoints(events)}
}
