package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/session"
	"github.com/okian/pitchside/internal/domain/stats"
	"github.com/okian/pitchside/internal/domain/types"
)

// HTTPClient wraps http.Client with the probe's base URL and run ID.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	runID   string
}

// StatusError reports an unexpected response status.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL, runID string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		runID:   runID,
	}
}

// do sends a request and returns the body when the status is want.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, want int) ([]byte, error) {
	var rd io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", c.runID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != want {
		return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, v any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (c *HTTPClient) health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK)
	return err
}

func (c *HTTPClient) competitions(ctx context.Context) ([]model.Competition, error) {
	var out []model.Competition
	err := c.getJSON(ctx, "/api/competitions", &out)
	return out, err
}

func (c *HTTPClient) matches(ctx context.Context, competitionID, seasonID int) ([]model.Match, error) {
	var out []model.Match
	err := c.getJSON(ctx, fmt.Sprintf("/api/competitions/%d/seasons/%d/matches", competitionID, seasonID), &out)
	return out, err
}

func (c *HTTPClient) summary(ctx context.Context, m model.Match) (types.MatchSummary, error) {
	var out types.MatchSummary
	path := fmt.Sprintf("/api/competitions/%d/seasons/%d/matches/%d", m.CompetitionID, m.SeasonID, m.ID)
	err := c.getJSON(ctx, path, &out)
	return out, err
}

func (c *HTTPClient) events(ctx context.Context, matchID int) ([]model.Event, error) {
	var out struct {
		Events []model.Event `json:"events"`
	}
	err := c.getJSON(ctx, fmt.Sprintf("/api/matches/%d/events", matchID), &out)
	return out.Events, err
}

func (c *HTTPClient) teamCounts(ctx context.Context, matchID int) ([]types.TeamCount, error) {
	var out []types.TeamCount
	err := c.getJSON(ctx, fmt.Sprintf("/api/matches/%d/team-counts", matchID), &out)
	return out, err
}

func (c *HTTPClient) playerMetrics(ctx context.Context, matchID int, player string) (stats.Metrics, error) {
	var out struct {
		Metrics stats.Metrics `json:"metrics"`
	}
	path := fmt.Sprintf("/api/matches/%d/players/%s/metrics", matchID, url.PathEscape(player))
	err := c.getJSON(ctx, path, &out)
	return out.Metrics, err
}

func (c *HTTPClient) createSession(ctx context.Context, matchID int) (session.State, error) {
	var st session.State
	data, err := c.do(ctx, http.MethodPost, "/api/sessions", map[string]int{"match_id": matchID}, http.StatusCreated)
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

func (c *HTTPClient) submitFilters(ctx context.Context, id string, form session.Form) (session.State, types.FilterResult, error) {
	var out struct {
		State  session.State      `json:"state"`
		Result types.FilterResult `json:"result"`
	}
	data, err := c.do(ctx, http.MethodPut, "/api/sessions/"+id+"/filters", form, http.StatusOK)
	if err != nil {
		return out.State, out.Result, err
	}
	err = json.Unmarshal(data, &out)
	return out.State, out.Result, err
}

func (c *HTTPClient) sessionExport(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/api/sessions/"+id+"/export?format=csv", nil, http.StatusOK)
}

func (c *HTTPClient) deleteSession(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/sessions/"+id, nil, http.StatusNoContent)
	return err
}
