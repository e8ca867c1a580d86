package stats

import (
	"sort"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/types"
)

// PerTeamCounts counts passes and shots per team. Every team with at least one
// pass or shot is present; the missing side is zero. Events without a team are
// ignored.
func PerTeamCounts(events []model.Event) map[string]types.TeamCount {
	out := make(map[string]types.TeamCount)
	for i := range events {
		e := &events[i]
		if e.Team == "" {
			continue
		}
		if e.Type != model.TypePass && e.Type != model.TypeShot {
			continue
		}
		c := out[e.Team]
		c.Team = e.Team
		if e.Type == model.TypePass {
			c.Passes++
		} else {
			c.Shots++
		}
		out[e.Team] = c
	}
	return out
}

// SortedTeamCounts is PerTeamCounts ordered by team name.
func SortedTeamCounts(events []model.Event) []types.TeamCount {
	counts := PerTeamCounts(events)
	out := make([]types.TeamCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}

// ShotsByTeam counts the shots taken by team.
func ShotsByTeam(events []model.Event, team string) int {
	n := 0
	for i := range events {
		if events[i].Type == model.TypeShot && events[i].Team == team {
			n++
		}
	}
	return n
}

// Goals lists scored shots in event order.
func Goals(events []model.Event) []types.Goal {
	out := make([]types.Goal, 0)
	for i := range events {
		e := &events[i]
		if !e.IsGoal() {
			continue
		}
		out = append(out, types.Goal{Player: e.Player, Team: e.Team, Minute: e.Minute})
	}
	return out
}
