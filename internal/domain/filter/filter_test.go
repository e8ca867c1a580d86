package filter

import (
	"errors"
	"testing"

	"github.com/okian/pitchside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func ev(id, player string, t model.EventType, minute, second int) model.Event {
	return model.Event{ID: id, Player: player, Type: t, TypeName: t.String(), Minute: minute, Second: second}
}

func ids(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func fixture() []model.Event {
	return []model.Event{
		ev("e1", "A", model.TypePass, 0, 5),
		ev("e2", "B", model.TypeShot, 12, 40),
		ev("e3", "A", model.TypeDribble, 30, 0),
		ev("e4", "", model.TypeOther, 44, 59),
		ev("e5", "C", model.TypePass, 45, 0),
		ev("e6", "A", model.TypeShot, 46, 0),
		ev("e7", "B", model.TypePass, 89, 59),
	}
}

func fullSpec() Spec {
	return Spec{
		Window:     Window{Start: 0, End: 90 * 60},
		Selector:   SelectAll,
		Players:    []string{"A", "B", "C"},
		MaxResults: 100,
	}
}

func TestApply(t *testing.T) {
	Convey("Given a match event sequence", t, func() {
		events := fixture()

		Convey("When the window ends at 45:00", func() {
			spec := fullSpec()
			spec.Window = Window{Start: 0, End: 45 * 60}
			got := Apply(events, spec)

			Convey("Then an event at exactly 45:00 is kept and 46:00 is not", func() {
				So(ids(got), ShouldContain, "e5")
				So(ids(got), ShouldNotContain, "e6")
			})
		})

		Convey("When selecting players A and B with everything else open", func() {
			spec := fullSpec()
			spec.Players = []string{"A", "B"}
			got := Apply(events, spec)

			Convey("Then exactly their events survive in input order", func() {
				So(ids(got), ShouldResemble, []string{"e1", "e2", "e3", "e6", "e7"})
			})
		})

		Convey("When selecting shots", func() {
			spec := fullSpec()
			spec.Selector = SelectShots
			So(ids(Apply(events, spec)), ShouldResemble, []string{"e2", "e6"})
		})

		Convey("When selecting passes", func() {
			spec := fullSpec()
			spec.Selector = SelectPasses
			So(ids(Apply(events, spec)), ShouldResemble, []string{"e1", "e5", "e7"})
		})

		Convey("When max results is zero or negative", func() {
			spec := fullSpec()
			spec.MaxResults = 0
			got := Apply(events, spec)

			Convey("Then the result is empty and not nil", func() {
				So(got, ShouldNotBeNil)
				So(got, ShouldBeEmpty)
			})

			spec.MaxResults = -3
			So(Apply(events, spec), ShouldBeEmpty)
		})

		Convey("When max results is smaller than the survivors", func() {
			spec := fullSpec()
			spec.MaxResults = 2
			So(ids(Apply(events, spec)), ShouldResemble, []string{"e1", "e2"})
		})

		Convey("When the player set is empty", func() {
			spec := fullSpec()
			spec.Players = nil
			So(Apply(events, spec), ShouldBeEmpty)
		})

		Convey("When an empty identity is selected", func() {
			spec := fullSpec()
			spec.Players = []string{""}

			Convey("Then player-less events still never match", func() {
				So(Apply(events, spec), ShouldBeEmpty)
			})
		})

		Convey("When the window is inverted", func() {
			spec := fullSpec()
			spec.Window = Window{Start: 60 * 60, End: 10 * 60}
			So(Apply(events, spec), ShouldBeEmpty)
		})

		Convey("When filtering", func() {
			before := fixture()
			got := Apply(events, fullSpec())

			Convey("Then the input is left untouched and not aliased", func() {
				So(events, ShouldResemble, before)
				got[0].Player = "mutated"
				So(events[0].Player, ShouldEqual, "A")
			})
		})

		Convey("When the output is filtered again with the same spec", func() {
			spec := fullSpec()
			spec.Players = []string{"A"}
			spec.MaxResults = 2
			once := Apply(events, spec)
			twice := Apply(once, spec)

			Convey("Then nothing changes", func() {
				So(twice, ShouldResemble, once)
			})
		})

		Convey("When the passes run in a different order", func() {
			w := Window{Start: 10 * 60, End: 50 * 60}
			players := []string{"A", "B"}

			a := ByPlayers(ByType(ByWindow(events, w), SelectShots), players)
			b := ByWindow(ByPlayers(ByType(events, SelectShots), players), w)
			c := ByType(ByWindow(ByPlayers(events, players), w), SelectShots)

			Convey("Then the result is the same", func() {
				So(ids(a), ShouldResemble, ids(b))
				So(ids(a), ShouldResemble, ids(c))
				So(ids(a), ShouldResemble, []string{"e2", "e6"})
			})

			Convey("Then Apply agrees with the composed passes", func() {
				got := Apply(events, Spec{Window: w, Selector: SelectShots, Players: players, MaxResults: 10})
				So(ids(got), ShouldResemble, ids(a))
			})
		})
	})
}

func TestTruncate(t *testing.T) {
	Convey("Given a short sequence", t, func() {
		events := fixture()[:3]

		So(ids(Truncate(events, 5)), ShouldResemble, []string{"e1", "e2", "e3"})
		So(ids(Truncate(events, 1)), ShouldResemble, []string{"e1"})
		So(Truncate(events, 0), ShouldNotBeNil)
		So(Truncate(events, 0), ShouldBeEmpty)
	})
}

func TestParseClock(t *testing.T) {
	Convey("Given clock strings", t, func() {
		Convey("When they are well formed", func() {
			cases := map[string]int{
				"00:00":  0,
				"45:00":  2700,
				"90:00":  5400,
				"12:34":  754,
				"5:07":   307,
				"120:59": 7259,
			}
			for in, want := range cases {
				got, err := ParseClock(FieldWindowStart, in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("When they are malformed", func() {
			for _, in := range []string{"", "45", "45:", ":30", "ab:cd", "-1:00", "+1:00", "10:60", "10:99", "1:2:3", " 1:00", "1.5:00"} {
				_, err := ParseClock(FieldWindowEnd, in)

				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrConfiguration), ShouldBeTrue)

				ce := AsConfigurationError(err)
				So(ce, ShouldNotBeNil)
				So(ce.Field, ShouldEqual, FieldWindowEnd)
				So(ce.Value, ShouldEqual, in)
			}
		})

		Convey("When the minute would overflow the second total", func() {
			for _, in := range []string{"153722867280912931:00", "153722867280912930:59", "99999999999999999999:00"} {
				got, err := ParseClock(FieldWindowEnd, in)

				So(got, ShouldEqual, 0)
				So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
			}
		})

		Convey("When the minute is the largest representable", func() {
			got, err := ParseClock(FieldWindowEnd, "153722867280912929:59")
			So(err, ShouldBeNil)
			So(got, ShouldBeGreaterThan, 0)
		})
	})
}

func TestFormatClock(t *testing.T) {
	Convey("Given second totals", t, func() {
		So(FormatClock(0), ShouldEqual, "00:00")
		So(FormatClock(754), ShouldEqual, "12:34")
		So(FormatClock(7259), ShouldEqual, "120:59")
		So(FormatClock(-5), ShouldEqual, "00:00")
	})
}

func TestParseWindow(t *testing.T) {
	Convey("Given window bounds", t, func() {
		w, err := ParseWindow("00:00", "90:00")
		So(err, ShouldBeNil)
		So(w, ShouldResemble, Window{Start: 0, End: 5400})
		So(w.Contains(5400), ShouldBeTrue)
		So(w.Contains(5401), ShouldBeFalse)

		Convey("When the end is malformed the error names it", func() {
			_, err := ParseWindow("00:00", "90")
			So(AsConfigurationError(err).Field, ShouldEqual, FieldWindowEnd)
		})

		Convey("When the start is malformed the error names it", func() {
			_, err := ParseWindow("x", "90:00")
			So(AsConfigurationError(err).Field, ShouldEqual, FieldWindowStart)
		})

		Convey("When the window is inverted it is still accepted", func() {
			w, err := ParseWindow("60:00", "10:00")
			So(err, ShouldBeNil)
			So(w.Contains(30*60), ShouldBeFalse)
		})
	})
}

func TestParseSelector(t *testing.T) {
	Convey("Given selector names", t, func() {
		for in, want := range map[string]Selector{
			"passes": SelectPasses,
			"Passes": SelectPasses,
			"shots":  SelectShots,
			"Chutes": SelectShots,
			"all":    SelectAll,
			"Todos":  SelectAll,
		} {
			got, err := ParseSelector(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		_, err := ParseSelector("dribbles")
		So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
		So(AsConfigurationError(err).Field, ShouldEqual, FieldEventType)

		Convey("When it round-trips as text", func() {
			b, err := SelectShots.MarshalText()
			So(err, ShouldBeNil)

			var s Selector
			So(s.UnmarshalText(b), ShouldBeNil)
			So(s, ShouldEqual, SelectShots)
		})
	})
}
