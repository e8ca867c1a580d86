package filter

import (
	"math"
	"strconv"
	"strings"
)

const secondsPerMinute = 60

// Field names reported in configuration errors.
const (
	FieldWindowStart = "window_start"
	FieldWindowEnd   = "window_end"
	FieldEventType   = "event_type"
	FieldMaxResults  = "max_results"
	FieldPlayers     = "players"
)

// ParseClock parses an "mm:ss" bound into total seconds since kickoff.
// Both components must be plain decimal digits; seconds must be in [0,60).
// Minutes are unbounded so extra time ("120:00") is expressible.
func ParseClock(field, s string) (int, error) {
	mm, ss, ok := strings.Cut(s, ":")
	if !ok {
		return 0, configErr(field, s, "expected mm:ss")
	}
	if strings.Contains(ss, ":") {
		return 0, configErr(field, s, "expected a single colon")
	}
	minute, err := parseDigits(mm)
	if err != nil {
		return 0, configErr(field, s, "minute must be a non-negative integer")
	}
	if minute > (math.MaxInt-secondsPerMinute)/secondsPerMinute {
		return 0, configErr(field, s, "minute out of range")
	}
	second, err := parseDigits(ss)
	if err != nil {
		return 0, configErr(field, s, "second must be a non-negative integer")
	}
	if second >= secondsPerMinute {
		return 0, configErr(field, s, "second must be below 60")
	}
	return minute*secondsPerMinute + second, nil
}

// parseDigits accepts only [0-9]+; strconv.Atoi alone would let "+5" and "-0" through.
func parseDigits(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// FormatClock renders total seconds as "mm:ss".
func FormatClock(total int) string {
	if total < 0 {
		total = 0
	}
	m, s := total/secondsPerMinute, total%secondsPerMinute
	out := strconv.Itoa(m)
	if m < 10 {
		out = "0" + out
	}
	if s < 10 {
		return out + ":0" + strconv.Itoa(s)
	}
	return out + ":" + strconv.Itoa(s)
}

// Window is an inclusive [Start, End] range in seconds since kickoff.
type Window struct {
	Start int
	End   int
}

// ParseWindow parses both bounds. An inverted window is accepted and matches nothing.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(FieldWindowStart, start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(FieldWindowEnd, end)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: s, End: e}, nil
}

// Contains reports whether clock lies inside the window, bounds included.
func (w Window) Contains(clock int) bool {
	return clock >= w.Start && clock <= w.End
}
