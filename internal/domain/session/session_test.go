package session

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/pitchside/internal/domain/filter"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	Convey("Given a freshly selected match", t, func() {
		Convey("When it has several players", func() {
			s := Defaults("s1", 3869685, []string{"Messi", "Mbappé", "Di María"}, Config{}, now)

			Convey("Then the form carries the dashboard defaults", func() {
				So(s.ID, ShouldEqual, "s1")
				So(s.MatchID, ShouldEqual, 3869685)
				So(s.MaxResults, ShouldEqual, 100)
				So(s.WindowStart, ShouldEqual, "00:00")
				So(s.WindowEnd, ShouldEqual, "90:00")
				So(s.EventType, ShouldEqual, "all")
				So(s.Compare, ShouldBeFalse)
				So(s.Player1, ShouldEqual, "Messi")
				So(s.Player2, ShouldEqual, "Mbappé")
				So(s.UpdatedAt, ShouldEqual, now)
			})
		})

		Convey("When it has one player", func() {
			s := Defaults("s2", 1, []string{"Solo"}, Config{MaxResults: 20, WindowEnd: "120:00"}, now)
			So(s.Player1, ShouldEqual, "Solo")
			So(s.Player2, ShouldEqual, "Solo")
			So(s.Players(), ShouldResemble, []string{"Solo"})
			So(s.MaxResults, ShouldEqual, 20)
			So(s.WindowEnd, ShouldEqual, "120:00")
		})
	})
}

func TestApplyForm(t *testing.T) {
	Convey("Given a default state", t, func() {
		now := time.Now()
		s := Defaults("s", 1, []string{"A", "B"}, Config{}, now)

		Convey("When a partial form is submitted", func() {
			n, end, kind, cmp := 5, "45:00", "shots", true
			later := now.Add(time.Minute)
			got := s.Apply(Form{MaxResults: &n, WindowEnd: &end, EventType: &kind, Compare: &cmp}, later)

			Convey("Then only the submitted fields change", func() {
				So(got.MaxResults, ShouldEqual, 5)
				So(got.WindowEnd, ShouldEqual, "45:00")
				So(got.WindowStart, ShouldEqual, "00:00")
				So(got.EventType, ShouldEqual, "shots")
				So(got.Compare, ShouldBeTrue)
				So(got.Player1, ShouldEqual, "A")
				So(got.UpdatedAt, ShouldEqual, later)
			})

			Convey("Then the original is untouched", func() {
				So(s.MaxResults, ShouldEqual, 100)
			})
		})
	})
}

func TestSpec(t *testing.T) {
	Convey("Given a valid state", t, func() {
		s := Defaults("s", 1, []string{"A", "B"}, Config{}, time.Now())

		Convey("When building the filter spec", func() {
			spec, err := s.Spec(500)

			So(err, ShouldBeNil)
			So(spec, ShouldResemble, filter.Spec{
				Window:     filter.Window{Start: 0, End: 5400},
				Selector:   filter.SelectAll,
				Players:    []string{"A", "B"},
				MaxResults: 100,
			})
		})

		Convey("When max results is out of range", func() {
			for _, n := range []int{0, -1, 501} {
				s.MaxResults = n
				_, err := s.Spec(500)
				So(errors.Is(err, filter.ErrConfiguration), ShouldBeTrue)
				So(filter.AsConfigurationError(err).Field, ShouldEqual, filter.FieldMaxResults)
			}
		})

		Convey("When a clock is malformed", func() {
			s.WindowStart = "1:75"
			_, err := s.Spec(500)
			So(filter.AsConfigurationError(err).Field, ShouldEqual, filter.FieldWindowStart)
		})

		Convey("When the event type is unknown", func() {
			s.EventType = "tackles"
			_, err := s.Spec(500)
			So(filter.AsConfigurationError(err).Field, ShouldEqual, filter.FieldEventType)
		})

		Convey("When no player is selected", func() {
			s.Player1, s.Player2 = "", ""
			_, err := s.Spec(500)
			So(filter.AsConfigurationError(err).Field, ShouldEqual, filter.FieldPlayers)
		})
	})
}
