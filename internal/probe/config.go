// Package probe walks a running pitchside server and checks that the filter
// pipeline keeps its guarantees on live data.
package probe

import (
	"errors"
	"time"
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL       string        // Base URL of the service
	CompetitionID int           // Competition to probe; 0 picks the first listed
	SeasonID      int           // Season to probe; 0 picks the first of the competition
	Matches       int           // Number of matches to probe
	Workers       int           // Number of concurrent workers
	MaxResults    int           // max_results submitted with every form
	Window        string        // Window end submitted with every form
	Timeout       time.Duration // HTTP request timeout
	LogFile       string        // Log file for probe output
	Verbose       bool          // Log every check, not only failures
}

// Stats holds probe statistics.
type Stats struct {
	RunID         string
	MatchesProbed int
	Sessions      int
	ChecksPassed  int
	ChecksFailed  int
	Violations    []Violation
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}

// Violation is one failed check.
type Violation struct {
	MatchID int    `json:"match_id"`
	Check   string `json:"check"`
	Detail  string `json:"detail"`
}

// Defaults used when a Config field is left empty.
const (
	DefaultBaseURL    = "http://localhost:9080"
	DefaultMatches    = 5
	DefaultMaxResults = 25
	DefaultWindowEnd  = "45:00"
	DefaultTimeout    = 30 * time.Second
)

// Error constants
var (
	ErrNoCatalog = errors.New("no competition or season to probe")
	ErrNoMatches = errors.New("no matches to probe")
	ErrViolated  = errors.New("probe checks failed")
)

func (c *Config) withDefaults() *Config {
	out := *c
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	if out.Matches <= 0 {
		out.Matches = DefaultMatches
	}
	if out.Workers <= 0 {
		out.Workers = 1
	}
	if out.MaxResults <= 0 {
		out.MaxResults = DefaultMaxResults
	}
	if out.Window == "" {
		out.Window = DefaultWindowEnd
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	return &out
}
