package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

var errMissingParam = errors.New("missing parameter")

// idParam reads a positive integer URL parameter.
func idParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("%s: %w", name, errMissingParam)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

// idParams reads several positive integer URL parameters in order.
func idParams(r *http.Request, names ...string) ([]int, error) {
	out := make([]int, 0, len(names))
	for _, n := range names {
		id, err := idParam(r, n)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// playerParam reads the player path segment. chi matches on RawPath when the
// request has one, and only then is the segment still escaped.
func playerParam(r *http.Request) (string, error) {
	p := chi.URLParam(r, "player")
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(p)
		if err != nil {
			return "", fmt.Errorf("player: %w", err)
		}
		p = decoded
	}
	if p == "" {
		return "", fmt.Errorf("player: %w", errMissingParam)
	}
	return p, nil
}

// limitQuery reads ?limit=; absent means zero.
func limitQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer, got %q", raw)
	}
	return n, nil
}
