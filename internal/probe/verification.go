package probe

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/okian/pitchside/internal/domain/filter"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/session"
	"github.com/okian/pitchside/internal/domain/stats"
	"github.com/okian/pitchside/internal/domain/types"
)

// Check names reported in violations.
const (
	CheckCount       = "count"
	CheckMaxResults  = "max_results"
	CheckWindow      = "window"
	CheckSelector    = "selector"
	CheckPlayers     = "players"
	CheckOrder       = "order"
	CheckRecompute   = "recompute"
	CheckComparison  = "comparison"
	CheckTeamCounts  = "team_counts"
	CheckShotTotals  = "shot_totals"
	CheckUnknownZero = "unknown_player"
	CheckExport      = "export_rows"
)

// report accumulates the outcome of the checks run against one match.
type report struct {
	matchID    int
	session    bool
	passed     int
	violations []Violation
}

func (r *report) check(name string, ok bool, format string, args ...any) {
	if ok {
		r.passed++
		return
	}
	r.violations = append(r.violations, Violation{MatchID: r.matchID, Check: name, Detail: fmt.Sprintf(format, args...)})
}

// verifyFilterResult checks a form result against the state that produced it
// and against a local rerun of the pipeline over all match events.
func verifyFilterResult(r *report, st session.State, res types.FilterResult, all []model.Event) {
	r.check(CheckCount, res.Count == len(res.Events), "count %d but %d events", res.Count, len(res.Events))
	r.check(CheckMaxResults, len(res.Events) <= st.MaxResults, "%d events exceed max %d", len(res.Events), st.MaxResults)

	spec, err := st.Spec(st.MaxResults)
	if err != nil {
		r.check(CheckRecompute, false, "returned state is invalid: %v", err)
		return
	}

	inWindow, typed, owned, ordered := true, true, true, true
	for i := range res.Events {
		e := &res.Events[i]
		if !spec.Window.Contains(e.Clock()) {
			inWindow = false
		}
		if !spec.Selector.Match(e.Type) {
			typed = false
		}
		if !contains(spec.Players, e.Player) {
			owned = false
		}
		if i > 0 && res.Events[i-1].Index >= e.Index {
			ordered = false
		}
	}
	r.check(CheckWindow, inWindow, "event outside %s-%s", st.WindowStart, st.WindowEnd)
	r.check(CheckSelector, typed, "event does not match %q", st.EventType)
	r.check(CheckPlayers, owned, "event by a player outside %v", spec.Players)
	r.check(CheckOrder, ordered, "events out of provider order")

	local := filter.Apply(all, spec)
	r.check(CheckRecompute, sameIDs(local, res.Events), "local rerun kept %d events, server %d", len(local), len(res.Events))

	if st.Compare {
		want := types.Comparison{Player1: stats.Profile(all, st.Player1), Player2: stats.Profile(all, st.Player2)}
		r.check(CheckComparison, res.Comparison != nil && *res.Comparison == want, "comparison %+v, want %+v", res.Comparison, want)
	}
}

// verifyTeamCounts checks that every team with a pass or a shot has exactly one
// row and that each row matches a local count.
func verifyTeamCounts(r *report, counts []types.TeamCount, all []model.Event) {
	want := stats.PerTeamCounts(all)
	seen := make(map[string]bool, len(counts))
	ok := len(counts) == len(want)
	for _, c := range counts {
		if seen[c.Team] || want[c.Team] != c {
			ok = false
		}
		seen[c.Team] = true
	}
	r.check(CheckTeamCounts, ok, "rows %+v, want %+v", counts, want)
}

// verifyShotTotals checks the summary shot totals against the team counts.
func verifyShotTotals(r *report, sum types.MatchSummary, counts []types.TeamCount) {
	var home, away int
	for _, c := range counts {
		switch c.Team {
		case sum.Match.HomeTeam:
			home = c.Shots
		case sum.Match.AwayTeam:
			away = c.Shots
		}
	}
	r.check(CheckShotTotals, home == sum.HomeShots && away == sum.AwayShots,
		"summary shots %d-%d, team counts %d-%d", sum.HomeShots, sum.AwayShots, home, away)
}

func verifyUnknownPlayer(r *report, m stats.Metrics) {
	r.check(CheckUnknownZero, m == stats.Metrics{}, "unknown player has metrics %+v", m)
}

// verifyExport checks that a CSV export holds a header plus one row per event.
func verifyExport(r *report, data []byte, count int) {
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		r.check(CheckExport, false, "export is not valid csv: %v", err)
		return
	}
	r.check(CheckExport, len(rows) == count+1, "export has %d rows, want %d", len(rows), count+1)
}

func sameIDs(a, b []model.Event) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func contains(players []string, p string) bool {
	for _, q := range players {
		if q == p {
			return true
		}
	}
	return false
}
