// Package export encodes event collections as delimited text tables.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/pitchside/internal/domain/model"
)

// Format is a delimited table flavour.
type Format string

// Supported formats.
const (
	CSV Format = "csv"
	TSV Format = "tsv"
)

// ErrUnknownFormat is returned for any format other than csv or tsv.
var ErrUnknownFormat = errors.New("unknown export format")

// Header is the column order of every export.
var Header = []string{
	"id", "index", "period", "minute", "second", "type", "team", "player",
	"location_x", "location_y", "pass_end_x", "pass_end_y", "shot_outcome",
}

// ParseFormat accepts csv or tsv case-insensitively; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "csv":
		return CSV, nil
	case "tsv", "tab":
		return TSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == TSV {
		return "text/tab-separated-values; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// FileName builds a download name such as "match_3869685_events.csv".
func (f Format) FileName(matchID int, suffix string) string {
	name := "match_" + strconv.Itoa(matchID) + "_events"
	if suffix != "" {
		name += "_" + sanitize(suffix)
	}
	return name + "." + string(f)
}

// Write encodes events to w: the header row, then one row per event in order.
// Absent optional values are empty cells.
func Write(w io.Writer, events []model.Event, f Format) error {
	cw := csv.NewWriter(w)
	switch f {
	case CSV:
	case TSV:
		cw.Comma = '\t'
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(Header))
	for i := range events {
		fill(row, &events[i])
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func fill(row []string, e *model.Event) {
	row[0] = e.ID
	row[1] = strconv.Itoa(e.Index)
	row[2] = strconv.Itoa(e.Period)
	row[3] = strconv.Itoa(e.Minute)
	row[4] = strconv.Itoa(e.Second)
	row[5] = e.TypeName
	if row[5] == "" {
		row[5] = e.Type.String()
	}
	row[6] = e.Team
	row[7] = e.Player
	row[8], row[9] = coords(e.Location)
	row[10], row[11] = coords(e.PassEndLocation)
	row[12] = e.ShotOutcome
}

func coords(p *model.Point) (string, string) {
	if p == nil {
		return "", ""
	}
	return strconv.FormatFloat(p.X, 'f', -1, 64), strconv.FormatFloat(p.Y, 'f', -1, 64)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
