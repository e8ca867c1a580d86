package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/okian/pitchside/internal/adapters/export"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/stats"
	"github.com/okian/pitchside/internal/domain/types"
	"github.com/okian/pitchside/pkg/metrics"
)

// MatchHandler serves the derived views of one match.
type MatchHandler struct {
	deps MatchData
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchData) *MatchHandler {
	return &MatchHandler{deps: deps}
}

type playerMetricsResponse struct {
	Player  string              `json:"player"`
	Metrics stats.Metrics       `json:"metrics"`
	Profile types.PlayerProfile `json:"profile"`
}

type eventsResponse struct {
	Events []model.Event `json:"events"`
	Count  int           `json:"count"`
}

// HandleEvents handles GET /api/matches/{matchID}/events?limit=.
func (h *MatchHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.match_events"
	mid, err := idParam(r, "matchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	limit, err := limitQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	events, err := h.deps.Events(r.Context(), mid, limit)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: events, Count: len(events)})
}

// HandlePlayers handles GET /api/matches/{matchID}/players.
func (h *MatchHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.match_players"
	mid, err := idParam(r, "matchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	players, err := h.deps.Players(r.Context(), mid)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// HandlePlayerMetrics handles GET /api/matches/{matchID}/players/{player}/metrics.
// A player absent from the match yields zero metrics.
func (h *MatchHandler) HandlePlayerMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_metrics"
	mid, player, ok := matchAndPlayer(w, r, op)
	if !ok {
		return
	}
	m, p, err := h.deps.PlayerMetrics(r.Context(), mid, player)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, playerMetricsResponse{Player: player, Metrics: m, Profile: p})
}

// HandlePlayerEvents handles GET /api/matches/{matchID}/players/{player}/events.
func (h *MatchHandler) HandlePlayerEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_events"
	mid, player, ok := matchAndPlayer(w, r, op)
	if !ok {
		return
	}
	events, err := h.deps.PlayerEvents(r.Context(), mid, player)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: events, Count: len(events)})
}

// HandleTeamCounts handles GET /api/matches/{matchID}/team-counts.
func (h *MatchHandler) HandleTeamCounts(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_counts"
	mid, err := idParam(r, "matchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	counts, err := h.deps.TeamCounts(r.Context(), mid)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// HandlePitch handles GET /api/matches/{matchID}/pitch?player=.
func (h *MatchHandler) HandlePitch(w http.ResponseWriter, r *http.Request) {
	const op = "api.pitch"
	mid, err := idParam(r, "matchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	pitch, err := h.deps.Pitch(r.Context(), mid, r.URL.Query().Get("player"))
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, pitch)
}

// HandleExport handles GET /api/matches/{matchID}/export?format=&player=.
func (h *MatchHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.match_export"
	mid, err := idParam(r, "matchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	player := r.URL.Query().Get("player")
	events, err := h.deps.ExportEvents(r.Context(), mid, player)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeExport(w, op, format, format.FileName(mid, player), events)
}

func matchAndPlayer(w http.ResponseWriter, r *http.Request, op string) (int, string, bool) {
	mid, err := idParam(r, "matchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return 0, "", false
	}
	player, err := playerParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return 0, "", false
	}
	return mid, player, true
}

// writeExport buffers the table so an encoding failure can still be reported as JSON.
func writeExport(w http.ResponseWriter, op string, format export.Format, name string, events []model.Event) {
	var buf bytes.Buffer
	if err := export.Write(&buf, events, format); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	metrics.RecordExport(string(format))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
