// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/pitchside/internal/adapters/provider"
	"github.com/okian/pitchside/internal/domain/filter"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/session"
	"github.com/okian/pitchside/internal/domain/stats"
	"github.com/okian/pitchside/internal/domain/types"
	"github.com/okian/pitchside/pkg/logger"
)

const defaultRequestTimeout = 30 * time.Second

// Catalog exposes competitions, seasons and matches.
type Catalog interface {
	Competitions(ctx context.Context) ([]model.Competition, error)
	Seasons(ctx context.Context, competitionID int) ([]model.Season, error)
	Matches(ctx context.Context, competitionID, seasonID int) ([]model.Match, error)
	MatchSummary(ctx context.Context, competitionID, seasonID, matchID int) (types.MatchSummary, error)
}

// MatchData exposes the derived views of one match.
type MatchData interface {
	Events(ctx context.Context, matchID, limit int) ([]model.Event, error)
	Players(ctx context.Context, matchID int) ([]string, error)
	PlayerMetrics(ctx context.Context, matchID int, player string) (stats.Metrics, types.PlayerProfile, error)
	PlayerEvents(ctx context.Context, matchID int, player string) ([]model.Event, error)
	TeamCounts(ctx context.Context, matchID int) ([]types.TeamCount, error)
	Pitch(ctx context.Context, matchID int, player string) (types.Pitch, error)
	ExportEvents(ctx context.Context, matchID int, player string) ([]model.Event, error)
}

// Sessions exposes the per-user dashboard state.
type Sessions interface {
	CreateSession(ctx context.Context, matchID int) (session.State, error)
	Session(ctx context.Context, id string) (session.State, error)
	DeleteSession(ctx context.Context, id string) error
	SubmitFilters(ctx context.Context, id string, form session.Form) (session.State, types.FilterResult, error)
	SessionView(ctx context.Context, id string) (session.State, []model.Event, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Catalog
	MatchData
	Sessions
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	catalogHandler *CatalogHandler
	matchHandler   *MatchHandler
	sessionHandler *SessionHandler

	requestTimeout time.Duration
	log            logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRequestTimeout bounds the handling time of each request.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		catalogHandler: NewCatalogHandler(deps),
		matchHandler:   NewMatchHandler(deps),
		sessionHandler: NewSessionHandler(deps),
		requestTimeout: defaultRequestTimeout,
		log:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Use installs the middleware stack on r. It must run before any route is added.
func (s *Server) Use(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.log))
	r.Use(MetricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/api", func(r chi.Router) {
		r.Route("/competitions", func(r chi.Router) {
			r.Get("/", s.catalogHandler.HandleCompetitions)
			r.Get("/{competitionID}/seasons", s.catalogHandler.HandleSeasons)
			r.Get("/{competitionID}/seasons/{seasonID}/matches", s.catalogHandler.HandleMatches)
			r.Get("/{competitionID}/seasons/{seasonID}/matches/{matchID}", s.catalogHandler.HandleMatchSummary)
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/events", s.matchHandler.HandleEvents)
			r.Get("/players", s.matchHandler.HandlePlayers)
			r.Get("/players/{player}/metrics", s.matchHandler.HandlePlayerMetrics)
			r.Get("/players/{player}/events", s.matchHandler.HandlePlayerEvents)
			r.Get("/team-counts", s.matchHandler.HandleTeamCounts)
			r.Get("/pitch", s.matchHandler.HandlePitch)
			r.Get("/export", s.matchHandler.HandleExport)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.sessionHandler.HandleCreate)
			r.Get("/{sessionID}", s.sessionHandler.HandleGet)
			r.Delete("/{sessionID}", s.sessionHandler.HandleDelete)
			r.Put("/{sessionID}/filters", s.sessionHandler.HandleSubmitFilters)
			r.Get("/{sessionID}/export", s.sessionHandler.HandleExport)
		})
	})
}

// NewRouter returns a chi router carrying the middleware stack and every API route.
func NewRouter(deps Dependencies, opts ...ServerOption) *chi.Mux {
	r := chi.NewRouter()
	s := NewServer(deps, opts...)
	s.Use(r)
	s.Register(r)
	return r
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Retryable *bool  `json:"retryable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// statusClientClosedRequest is the nginx convention for a caller that hung up.
const statusClientClosedRequest = 499

// writeFailure maps a dependency error onto the HTTP error contract.
// Context errors win over the provider wrapping they may arrive in.
func writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		writeError(w, statusClientClosedRequest, "canceled", Wrap(op, err))
		return
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", Wrap(op, err))
		return
	}
	if ce := filter.AsConfigurationError(err); ce != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "configuration_error",
			Message: WrapKind(op, ErrBadRequest, err).Error(),
			Field:   ce.Field,
		})
		return
	}
	if pe := provider.AsError(err); pe != nil {
		retryable := pe.Retryable()
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Code:      "provider_failure",
			Message:   WrapKind(op, ErrUpstream, err).Error(),
			Retryable: &retryable,
		})
		return
	}
	if errors.Is(err, types.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
}
