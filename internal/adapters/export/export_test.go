package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/okian/pitchside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sample() []model.Event {
	return []model.Event{
		{
			ID: "p1", Index: 7, Period: 1, Minute: 3, Second: 9,
			Type: model.TypePass, TypeName: "Pass", Team: "Argentina", Player: "Enzo Fernández",
			Location: &model.Point{X: 60, Y: 40}, PassEndLocation: &model.Point{X: 72.5, Y: 31},
		},
		{
			ID: "s1", Index: 8, Period: 1, Minute: 22, Second: 47,
			Type: model.TypeShot, TypeName: "Shot", Team: "Argentina", Player: "Messi, Lionel",
			Location: &model.Point{X: 108, Y: 40}, ShotOutcome: "Goal",
		},
		{ID: "o1", Index: 9, Period: 2, Minute: 46, Type: model.TypeOther, TypeName: "Half Start", Team: "France"},
	}
}

func TestWrite(t *testing.T) {
	Convey("Given a short event collection", t, func() {
		events := sample()

		Convey("When exported as csv", func() {
			var buf bytes.Buffer
			So(Write(&buf, events, CSV), ShouldBeNil)

			rows, err := csv.NewReader(&buf).ReadAll()
			So(err, ShouldBeNil)

			Convey("Then the header comes first and rows follow in order", func() {
				So(len(rows), ShouldEqual, 4)
				So(rows[0], ShouldResemble, Header)
				So(rows[1], ShouldResemble, []string{"p1", "7", "1", "3", "9", "Pass", "Argentina", "Enzo Fernández", "60", "40", "72.5", "31", ""})
				So(rows[2][7], ShouldEqual, "Messi, Lionel")
				So(rows[2][12], ShouldEqual, "Goal")
			})

			Convey("Then absent values are empty cells", func() {
				So(rows[3][7], ShouldEqual, "")
				So(rows[3][8:12], ShouldResemble, []string{"", "", "", ""})
			})
		})

		Convey("When exported as tsv", func() {
			var buf bytes.Buffer
			So(Write(&buf, events, TSV), ShouldBeNil)
			first := strings.SplitN(buf.String(), "\n", 2)[0]
			So(first, ShouldEqual, strings.Join(Header, "\t"))
		})

		Convey("When the collection is empty", func() {
			var buf bytes.Buffer
			So(Write(&buf, nil, CSV), ShouldBeNil)
			So(buf.String(), ShouldEqual, strings.Join(Header, ",")+"\n")
		})

		Convey("When the format is unknown", func() {
			err := Write(&bytes.Buffer{}, events, Format("xlsx"))
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
		})
	})
}

func TestFormatHelpers(t *testing.T) {
	Convey("Given format names", t, func() {
		f, err := ParseFormat("")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, CSV)

		f, err = ParseFormat("TSV")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, TSV)
		So(f.ContentType(), ShouldStartWith, "text/tab-separated-values")

		_, err = ParseFormat("json")
		So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)

		So(CSV.FileName(3869685, ""), ShouldEqual, "match_3869685_events.csv")
		So(TSV.FileName(1, "Messi, Lionel"), ShouldEqual, "match_1_events_Messi__Lionel.tsv")
	})
}
