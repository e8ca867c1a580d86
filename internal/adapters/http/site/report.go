package site

import (
	"strconv"

	"github.com/okian/pitchside/internal/domain/types"
)

//go:generate templ generate

// ReportData feeds the printable match report.
type ReportData struct {
	Summary  types.MatchSummary
	Profiles []types.PlayerProfile
}

// matchLine renders "competition season · date", dropping the date when unknown.
func matchLine(s types.MatchSummary) string {
	line := s.Competition + " " + s.Season
	if s.Match.Date != "" {
		line += " · " + s.Match.Date
	}
	return line
}

func percent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}
