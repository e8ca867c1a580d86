// Package provider fetches competitions, matches and events from the StatsBomb
// open-data tree over HTTP.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// Lookup names used in errors and metrics.
const (
	LookupCompetitions = "competitions"
	LookupMatches      = "matches"
	LookupEvents       = "events"
)

// Client reads the open-data layout. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Competitions lists every published competition with its seasons.
func (c *Client) Competitions(ctx context.Context) ([]model.Competition, error) {
	var rows []competitionRow
	if err := c.get(ctx, LookupCompetitions, c.baseURL+"/competitions.json", &rows); err != nil {
		return nil, err
	}
	flat := make([]model.CompetitionSeason, 0, len(rows))
	for i := range rows {
		flat = append(flat, rows[i].toModel())
	}
	return model.GroupCompetitions(flat), nil
}

// Matches lists the fixtures of one competition season.
func (c *Client) Matches(ctx context.Context, competitionID, seasonID int) ([]model.Match, error) {
	var rows []matchRow
	url := fmt.Sprintf("%s/matches/%d/%d.json", c.baseURL, competitionID, seasonID)
	if err := c.get(ctx, LookupMatches, url, &rows); err != nil {
		return nil, err
	}
	out := make([]model.Match, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel(competitionID, seasonID))
	}
	return out, nil
}

// Events returns the event sequence of one match in provider order.
func (c *Client) Events(ctx context.Context, matchID int) ([]model.Event, error) {
	var rows []eventRow
	url := fmt.Sprintf("%s/events/%d.json", c.baseURL, matchID)
	if err := c.get(ctx, LookupEvents, url, &rows); err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

// get decodes url into dst. A 404 leaves dst empty and is not an error.
func (c *Client) get(ctx context.Context, lookup, url string, dst any) error {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.RecordProviderRequest(lookup, outcome)
		metrics.RecordProviderLatency(lookup, float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Lookup: lookup, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Lookup: lookup, URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		outcome = "not_found"
		c.log.Debug(ctx, "provider lookup not found", logger.String("lookup", lookup), logger.String("url", url))
		return nil
	case resp.StatusCode != http.StatusOK:
		return &Error{Lookup: lookup, URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &Error{Lookup: lookup, URL: url, Err: fmt.Errorf("%w: %w", errDecode, err)}
	}
	outcome = "ok"
	return nil
}
