// Package site serves the embedded dashboard and the server-rendered match report.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/pitchside/internal/adapters/provider"
	"github.com/okian/pitchside/internal/domain/types"
)

// Error constants
var (
	ErrRender = errors.New("report render failed")
	ErrServe  = errors.New("site serve failed")
)

// ReportSource supplies the data behind a match report.
type ReportSource interface {
	MatchSummary(ctx context.Context, competitionID, seasonID, matchID int) (types.MatchSummary, error)
	PlayerProfiles(ctx context.Context, matchID int) ([]types.PlayerProfile, error)
}

// Register attaches the dashboard, its assets and the report route to r.
func Register(_ context.Context, r chi.Router, src ReportSource) {
	if r == nil {
		panic("router is nil")
	}
	if src == nil {
		panic("report source is nil")
	}

	root := NewRootHandler()
	r.Get("/", root.HandleRoot)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(FS())))
	r.Get("/report/{competitionID}/{seasonID}/{matchID}", NewReportHandler(src).HandleReport)
}

// RootHandler handles root path requests
type RootHandler struct{}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / requests and serves the dashboard page.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, assets, "index.html")
}

// ReportHandler renders match reports.
type ReportHandler struct {
	src ReportSource
}

// NewReportHandler creates a new report handler.
func NewReportHandler(src ReportSource) *ReportHandler {
	return &ReportHandler{src: src}
}

// HandleReport handles GET /report/{competitionID}/{seasonID}/{matchID}.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ids := make([]int, 0, 3)
	for _, name := range []string{"competitionID", "seasonID", "matchID"} {
		id, err := strconv.Atoi(chi.URLParam(r, name))
		if err != nil || id <= 0 {
			http.Error(w, name+" must be a positive integer", http.StatusBadRequest)
			return
		}
		ids = append(ids, id)
	}

	summary, err := h.src.MatchSummary(r.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		failure(w, err)
		return
	}
	profiles, err := h.src.PlayerProfiles(r.Context(), ids[2])
	if err != nil {
		failure(w, err)
		return
	}

	var buf bytes.Buffer
	if err := Report(ReportData{Summary: summary, Profiles: profiles}).Render(r.Context(), &buf); err != nil {
		http.Error(w, fmt.Errorf("%w: %v", ErrRender, err).Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func failure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, provider.ErrProviderFailure):
		status = http.StatusBadGateway
	}
	http.Error(w, fmt.Errorf("%w: %v", ErrServe, err).Error(), status)
}
