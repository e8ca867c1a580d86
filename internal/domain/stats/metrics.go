// Package stats derives read-only views from a match event sequence.
package stats

import (
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/types"
)

// Metrics is the per-player shots/passes/dribbles tuple.
type Metrics struct {
	Shots    int `json:"shots"`
	Passes   int `json:"passes"`
	Dribbles int `json:"dribbles"`
}

// ComputeMetrics counts the Shot, Pass and Dribble events attributed to player.
// Matching is exact and case-sensitive. An unknown or empty player yields the
// zero tuple.
func ComputeMetrics(events []model.Event, player string) Metrics {
	var m Metrics
	if player == "" {
		return m
	}
	for i := range events {
		e := &events[i]
		if e.Player != player {
			continue
		}
		switch e.Type {
		case model.TypeShot:
			m.Shots++
		case model.TypePass:
			m.Passes++
		case model.TypeDribble:
			m.Dribbles++
		}
	}
	return m
}

// Profile is ComputeMetrics plus goals and shot conversion.
func Profile(events []model.Event, player string) types.PlayerProfile {
	m := ComputeMetrics(events, player)
	p := types.PlayerProfile{
		Player:   player,
		Shots:    m.Shots,
		Passes:   m.Passes,
		Dribbles: m.Dribbles,
	}
	if player == "" {
		return p
	}
	for i := range events {
		if events[i].Player == player && events[i].IsGoal() {
			p.Goals++
		}
	}
	if p.Shots > 0 {
		p.ConversionRate = float64(p.Goals) / float64(p.Shots)
	}
	return p
}
