package probe

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/session"
	"github.com/okian/pitchside/internal/domain/stats"
	"github.com/okian/pitchside/internal/domain/types"
)

func ev(id string, index, minute int, kind model.EventType, team, player string) model.Event {
	return model.Event{ID: id, Index: index, Minute: minute, Type: kind, TypeName: kind.String(), Team: team, Player: player}
}

func matchEvents() []model.Event {
	return []model.Event{
		ev("a", 1, 1, model.TypePass, "Argentina", "Messi"),
		ev("b", 2, 10, model.TypeShot, "Argentina", "Messi"),
		ev("c", 3, 20, model.TypePass, "France", "Mbappé"),
		ev("d", 4, 50, model.TypeShot, "France", "Mbappé"),
		ev("e", 5, 60, model.TypeDribble, "Argentina", "Messi"),
	}
}

func firstHalf() session.State {
	return session.State{
		ID:          "s",
		MatchID:     7,
		MaxResults:  10,
		WindowStart: "00:00",
		WindowEnd:   "45:00",
		Player1:     "Messi",
		Player2:     "Mbappé",
		EventType:   "all",
	}
}

func TestVerifyFilterResult(t *testing.T) {
	Convey("Given a first-half state", t, func() {
		all := matchEvents()
		st := firstHalf()
		r := &report{matchID: 7}

		Convey("When the server result matches a local rerun", func() {
			res := types.FilterResult{Events: all[:3], Count: 3}
			verifyFilterResult(r, st, res, all)

			Convey("Then every check passes", func() {
				So(r.violations, ShouldBeEmpty)
				So(r.passed, ShouldEqual, 7)
			})
		})

		Convey("When the result holds a second-half event", func() {
			res := types.FilterResult{Events: []model.Event{all[0], all[3]}, Count: 2}
			verifyFilterResult(r, st, res, all)

			Convey("Then the window and the rerun are flagged", func() {
				checks := make([]string, 0)
				for _, v := range r.violations {
					checks = append(checks, v.Check)
				}
				So(checks, ShouldResemble, []string{CheckWindow, CheckRecompute})
				So(r.violations[0].MatchID, ShouldEqual, 7)
			})
		})

		Convey("When the result exceeds max_results", func() {
			st.MaxResults = 2
			res := types.FilterResult{Events: all[:3], Count: 3}
			verifyFilterResult(r, st, res, all)

			Convey("Then the bound is flagged", func() {
				So(r.violations[0].Check, ShouldEqual, CheckMaxResults)
			})
		})

		Convey("When events come back reordered", func() {
			res := types.FilterResult{Events: []model.Event{all[1], all[0], all[2]}, Count: 3}
			verifyFilterResult(r, st, res, all)

			Convey("Then order is flagged", func() {
				So(r.violations[0].Check, ShouldEqual, CheckOrder)
			})
		})

		Convey("When the count disagrees with the events", func() {
			res := types.FilterResult{Events: all[:3], Count: 4}
			verifyFilterResult(r, st, res, all)
			So(r.violations[0].Check, ShouldEqual, CheckCount)
		})

		Convey("When a comparison is requested", func() {
			st.Compare = true
			want := types.Comparison{Player1: stats.Profile(all, "Messi"), Player2: stats.Profile(all, "Mbappé")}

			Convey("Then a matching comparison passes", func() {
				verifyFilterResult(r, st, types.FilterResult{Events: all[:3], Count: 3, Comparison: &want}, all)
				So(r.violations, ShouldBeEmpty)
			})

			Convey("Then a missing comparison is flagged", func() {
				verifyFilterResult(r, st, types.FilterResult{Events: all[:3], Count: 3}, all)
				So(r.violations[0].Check, ShouldEqual, CheckComparison)
			})
		})

		Convey("When the returned state is invalid", func() {
			st.WindowEnd = "ninety"
			verifyFilterResult(r, st, types.FilterResult{}, all)

			Convey("Then the rerun cannot be done", func() {
				So(r.violations[0].Check, ShouldEqual, CheckRecompute)
			})
		})
	})
}

func TestVerifyTeamCounts(t *testing.T) {
	Convey("Given the events of a match", t, func() {
		all := matchEvents()
		r := &report{}

		Convey("Then the outer join of both teams passes", func() {
			verifyTeamCounts(r, []types.TeamCount{
				{Team: "Argentina", Passes: 1, Shots: 1},
				{Team: "France", Passes: 1, Shots: 1},
			}, all)
			So(r.violations, ShouldBeEmpty)
		})

		Convey("Then a missing team is flagged", func() {
			verifyTeamCounts(r, []types.TeamCount{{Team: "Argentina", Passes: 1, Shots: 1}}, all)
			So(r.violations[0].Check, ShouldEqual, CheckTeamCounts)
		})

		Convey("Then a duplicated team is flagged", func() {
			verifyTeamCounts(r, []types.TeamCount{
				{Team: "Argentina", Passes: 1, Shots: 1},
				{Team: "Argentina", Passes: 1, Shots: 1},
			}, all)
			So(r.violations, ShouldHaveLength, 1)
		})

		Convey("Then summary shots must agree with the rows", func() {
			sum := types.MatchSummary{Match: model.Match{HomeTeam: "Argentina", AwayTeam: "France"}, HomeShots: 1, AwayShots: 2}
			verifyShotTotals(r, sum, []types.TeamCount{{Team: "Argentina", Shots: 1}, {Team: "France", Shots: 1}})
			So(r.violations[0].Check, ShouldEqual, CheckShotTotals)
		})
	})
}

func TestVerifyUnknownPlayerAndExport(t *testing.T) {
	Convey("Given an empty report", t, func() {
		r := &report{}

		Convey("Then zero metrics for an unknown player pass", func() {
			verifyUnknownPlayer(r, stats.Metrics{})
			So(r.passed, ShouldEqual, 1)
		})

		Convey("Then any metric for an unknown player is flagged", func() {
			verifyUnknownPlayer(r, stats.Metrics{Dribbles: 1})
			So(r.violations[0].Check, ShouldEqual, CheckUnknownZero)
		})

		Convey("Then an export with a header and two rows matches a count of two", func() {
			verifyExport(r, []byte("id,index\na,1\nb,2\n"), 2)
			So(r.violations, ShouldBeEmpty)
		})

		Convey("Then a short export is flagged", func() {
			verifyExport(r, []byte("id,index\na,1\n"), 2)
			So(r.violations[0].Detail, ShouldEqual, "export has 2 rows, want 3")
		})

		Convey("Then malformed csv is flagged", func() {
			verifyExport(r, []byte("id,index\n\"a,1\n"), 1)
			So(r.violations[0].Check, ShouldEqual, CheckExport)
		})
	})
}
