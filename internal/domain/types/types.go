// Package types contains read shapes shared between the service and the HTTP layer.
package types

import (
	"errors"

	"github.com/okian/pitchside/internal/domain/model"
)

// Goal is one scored shot.
type Goal struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Minute int    `json:"minute"`
}

// TeamCount is one row of the per-team passes/shots comparison.
type TeamCount struct {
	Team   string `json:"team"`
	Passes int    `json:"passes"`
	Shots  int    `json:"shots"`
}

// PassVector is a pass drawn from its origin to its destination.
type PassVector struct {
	Player string      `json:"player,omitempty"`
	Team   string      `json:"team"`
	From   model.Point `json:"from"`
	To     model.Point `json:"to"`
}

// ShotPoint is where a shot was taken from.
type ShotPoint struct {
	Player  string      `json:"player,omitempty"`
	Team    string      `json:"team"`
	At      model.Point `json:"at"`
	Outcome string      `json:"outcome,omitempty"`
}

// Pitch bundles overlay data for pass and shot maps.
type Pitch struct {
	Passes []PassVector `json:"passes"`
	Shots  []ShotPoint  `json:"shots"`
}

// PlayerProfile extends the metrics tuple with finishing figures.
type PlayerProfile struct {
	Player         string  `json:"player"`
	Shots          int     `json:"shots"`
	Passes         int     `json:"passes"`
	Dribbles       int     `json:"dribbles"`
	Goals          int     `json:"goals"`
	ConversionRate float64 `json:"conversion_rate"`
}

// MatchSummary is the header block of a match view.
type MatchSummary struct {
	Match       model.Match `json:"match"`
	Competition string      `json:"competition"`
	Season      string      `json:"season"`
	Goals       []Goal      `json:"goals"`
	HomeShots   int         `json:"home_shots"`
	AwayShots   int         `json:"away_shots"`
	TeamCounts  []TeamCount `json:"team_counts"`
	Events      int         `json:"events"`
}

// Comparison holds both sides of a two-player comparison.
type Comparison struct {
	Player1 PlayerProfile `json:"player1"`
	Player2 PlayerProfile `json:"player2"`
}

// FilterResult is what a form submission returns.
type FilterResult struct {
	Events     []model.Event `json:"events"`
	Count      int           `json:"count"`
	Comparison *Comparison   `json:"comparison,omitempty"`
}

// Stats is the service status payload served on /stats.
type Stats struct {
	UptimeSeconds  float64 `json:"uptime_seconds"`
	ActiveSessions int     `json:"active_sessions"`
	CacheEntries   int     `json:"cache_entries"`
	PrefetchQueued int64   `json:"prefetch_queued"`
	PrefetchDone   int64   `json:"prefetch_done"`
	PrefetchFailed int64   `json:"prefetch_failed"`
	Goroutines     int     `json:"goroutines"`
	MemoryBytes    uint64  `json:"memory_bytes"`
}

// ErrNotFound marks an unknown competition, season, match or session.
var ErrNotFound = errors.New("not found")
