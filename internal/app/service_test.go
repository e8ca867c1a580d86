package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/pitchside/internal/adapters/repository"
	"github.com/okian/pitchside/internal/domain/filter"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeProvider struct {
	mu          sync.Mutex
	eventCalls  map[int]int
	eventsErr   error
	competition []model.Competition
	matches     map[[2]int][]model.Match
	events      map[int][]model.Event
}

func (f *fakeProvider) Competitions(context.Context) ([]model.Competition, error) {
	return f.competition, nil
}

func (f *fakeProvider) Matches(_ context.Context, competitionID, seasonID int) ([]model.Match, error) {
	out := f.matches[[2]int{competitionID, seasonID}]
	if out == nil {
		out = []model.Match{}
	}
	return out, nil
}

func (f *fakeProvider) Events(_ context.Context, matchID int) ([]model.Event, error) {
	f.mu.Lock()
	f.eventCalls[matchID]++
	f.mu.Unlock()
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	out := f.events[matchID]
	if out == nil {
		out = []model.Event{}
	}
	return out, nil
}

func (f *fakeProvider) calls(matchID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.eventCalls[matchID]
}

func mk(id, team, player string, t model.EventType, minute int) model.Event {
	return model.Event{ID: id, Team: team, Player: player, Type: t, TypeName: t.String(), Minute: minute}
}

func finalEvents() []model.Event {
	goal := mk("e3", "Argentina", "Messi", model.TypeShot, 23)
	goal.ShotOutcome = model.OutcomeGoal
	goal.Location = &model.Point{X: 108, Y: 40}
	pass := mk("e1", "Argentina", "Messi", model.TypePass, 1)
	pass.Location = &model.Point{X: 60, Y: 40}
	pass.PassEndLocation = &model.Point{X: 70, Y: 30}
	return []model.Event{
		mk("e0", "Argentina", "", model.TypeOther, 0),
		pass,
		mk("e2", "France", "Mbappé", model.TypePass, 10),
		goal,
		mk("e4", "France", "Mbappé", model.TypeShot, 50),
		mk("e5", "France", "Griezmann", model.TypeDribble, 60),
		mk("e6", "Argentina", "Di María", model.TypePass, 80),
	}
}

func newFake() *fakeProvider {
	return &fakeProvider{
		eventCalls: make(map[int]int),
		competition: []model.Competition{{
			ID: 43, Name: "FIFA World Cup",
			Seasons: []model.Season{{ID: 106, Name: "2022"}},
		}},
		matches: map[[2]int][]model.Match{
			{43, 106}: {
				{ID: 1, CompetitionID: 43, SeasonID: 106, HomeTeam: "Argentina", AwayTeam: "France", HomeScore: 3, AwayScore: 3},
				{ID: 2, CompetitionID: 43, SeasonID: 106, HomeTeam: "Croatia", AwayTeam: "Morocco"},
			},
		},
		events: map[int][]model.Event{1: finalEvents()},
	}
}

func TestServiceLookups(t *testing.T) {
	Convey("Given a service over a fake provider", t, func() {
		ctx := context.Background()
		fake := newFake()
		svc := New(fake, WithEventTableLimit(3))

		Convey("When listing seasons", func() {
			seasons, err := svc.Seasons(ctx, 43)
			So(err, ShouldBeNil)
			So(seasons, ShouldResemble, []model.Season{{ID: 106, Name: "2022"}})

			_, err = svc.Seasons(ctx, 99)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("When reading a match summary", func() {
			sum, err := svc.MatchSummary(ctx, 43, 106, 1)
			So(err, ShouldBeNil)

			Convey("Then it carries goals, shots per side and team counts", func() {
				So(sum.Competition, ShouldEqual, "FIFA World Cup")
				So(sum.Season, ShouldEqual, "2022")
				So(sum.Match.Label(), ShouldEqual, "Argentina vs France")
				So(len(sum.Goals), ShouldEqual, 1)
				So(sum.Goals[0].Player, ShouldEqual, "Messi")
				So(sum.HomeShots, ShouldEqual, 1)
				So(sum.AwayShots, ShouldEqual, 1)
				So(len(sum.TeamCounts), ShouldEqual, 2)
				So(sum.Events, ShouldEqual, 7)
			})

			Convey("Then an unknown match is not found", func() {
				_, err := svc.MatchSummary(ctx, 43, 106, 77)
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When reading the event table", func() {
			got, err := svc.Events(ctx, 1, 0)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 3)

			got, err = svc.Events(ctx, 1, 2)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 2)
		})

		Convey("When reading per-player data", func() {
			players, err := svc.Players(ctx, 1)
			So(err, ShouldBeNil)
			So(players, ShouldResemble, []string{"Messi", "Mbappé", "Griezmann", "Di María"})

			m, p, err := svc.PlayerMetrics(ctx, 1, "Messi")
			So(err, ShouldBeNil)
			So(m.Shots, ShouldEqual, 1)
			So(m.Passes, ShouldEqual, 1)
			So(p.Goals, ShouldEqual, 1)
			So(p.ConversionRate, ShouldEqual, 1)

			m, _, err = svc.PlayerMetrics(ctx, 1, "Nobody")
			So(err, ShouldBeNil)
			So(m.Shots+m.Passes+m.Dribbles, ShouldEqual, 0)

			evs, err := svc.PlayerEvents(ctx, 1, "Mbappé")
			So(err, ShouldBeNil)
			So(len(evs), ShouldEqual, 2)

			profiles, err := svc.PlayerProfiles(ctx, 1)
			So(err, ShouldBeNil)
			So(len(profiles), ShouldEqual, 4)
		})

		Convey("When reading overlay data", func() {
			pitch, err := svc.Pitch(ctx, 1, "Messi")
			So(err, ShouldBeNil)
			So(len(pitch.Passes), ShouldEqual, 1)
			So(len(pitch.Shots), ShouldEqual, 1)
		})

		Convey("When the provider fails", func() {
			fake.eventsErr = errors.New("down")
			_, err := svc.TeamCounts(ctx, 1)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestServiceSessions(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		fake := newFake()
		now := time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)
		svc := New(fake,
			WithMaxResultsCap(50),
			WithIDGenerator(func() string { return "sess-1" }),
			WithClock(func() time.Time { return now }),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When a session is created", func() {
			st, err := svc.CreateSession(ctx, 1)
			So(err, ShouldBeNil)

			Convey("Then it carries the defaults clamped to the cap", func() {
				So(st.ID, ShouldEqual, "sess-1")
				So(st.MaxResults, ShouldEqual, 50)
				So(st.Player1, ShouldEqual, "Messi")
				So(st.Player2, ShouldEqual, "Mbappé")
				So(svc.GetStats(ctx).ActiveSessions, ShouldEqual, 1)
			})

			Convey("Then submitting a shots filter returns only their shots", func() {
				kind := "shots"
				next, res, err := svc.SubmitFilters(ctx, st.ID, session.Form{EventType: &kind})
				So(err, ShouldBeNil)
				So(next.EventType, ShouldEqual, "shots")
				So(res.Count, ShouldEqual, 2)
				So(res.Comparison, ShouldBeNil)

				stored, err := svc.Session(ctx, st.ID)
				So(err, ShouldBeNil)
				So(stored.EventType, ShouldEqual, "shots")
			})

			Convey("Then a comparison is computed over unfiltered events", func() {
				end, cmp := "15:00", true
				_, res, err := svc.SubmitFilters(ctx, st.ID, session.Form{WindowEnd: &end, Compare: &cmp})
				So(err, ShouldBeNil)
				So(res.Count, ShouldEqual, 2)
				So(res.Comparison, ShouldNotBeNil)
				So(res.Comparison.Player1.Shots, ShouldEqual, 1)
				So(res.Comparison.Player2.Shots, ShouldEqual, 1)
			})

			Convey("Then a malformed form is rejected and not stored", func() {
				bad := "45"
				_, _, err := svc.SubmitFilters(ctx, st.ID, session.Form{WindowEnd: &bad})
				So(errors.Is(err, filter.ErrConfiguration), ShouldBeTrue)

				stored, _ := svc.Session(ctx, st.ID)
				So(stored.WindowEnd, ShouldEqual, "90:00")
			})

			Convey("Then max results above the cap is rejected", func() {
				n := 51
				_, _, err := svc.SubmitFilters(ctx, st.ID, session.Form{MaxResults: &n})
				So(filter.AsConfigurationError(err).Field, ShouldEqual, filter.FieldMaxResults)
			})

			Convey("Then the session view reruns the stored filters", func() {
				n := 3
				_, _, err := svc.SubmitFilters(ctx, st.ID, session.Form{MaxResults: &n})
				So(err, ShouldBeNil)
				_, events, err := svc.SessionView(ctx, st.ID)
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 3)
			})

			Convey("Then it can be deleted once", func() {
				So(svc.DeleteSession(ctx, st.ID), ShouldBeNil)
				So(errors.Is(svc.DeleteSession(ctx, st.ID), ErrNotFound), ShouldBeTrue)
				_, err := svc.Session(ctx, st.ID)
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the match has no events", func() {
			_, err := svc.CreateSession(ctx, 2)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestServicePrefetch(t *testing.T) {
	Convey("Given a service with prefetch over a cached provider", t, func() {
		ctx := context.Background()
		fake := newFake()
		cached := repository.NewCachedProvider(fake)
		defer cached.Close()
		svc := New(cached, WithPrefetch(2, 8))
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When a season is listed", func() {
			_, err := svc.Matches(ctx, 43, 106)
			So(err, ShouldBeNil)

			deadline := time.Now().Add(2 * time.Second)
			for (!cached.HasEvents(1) || !cached.HasEvents(2)) && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}

			Convey("Then the event cache is warmed once per match", func() {
				So(cached.HasEvents(1), ShouldBeTrue)
				So(cached.HasEvents(2), ShouldBeTrue)

				_, err := svc.Matches(ctx, 43, 106)
				So(err, ShouldBeNil)
				_, err = svc.Players(ctx, 1)
				So(err, ShouldBeNil)
				So(fake.calls(1), ShouldEqual, 1)
			})
		})

		So(svc.Stop(ctx), ShouldBeNil)
	})
}
