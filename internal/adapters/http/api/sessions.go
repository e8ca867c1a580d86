package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/pitchside/internal/adapters/export"
	"github.com/okian/pitchside/internal/domain/session"
	"github.com/okian/pitchside/internal/domain/types"
)

// maxBodyBytes bounds session request bodies.
const maxBodyBytes = 64 << 10

// SessionHandler serves the dashboard session endpoints.
type SessionHandler struct {
	deps Sessions
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Sessions) *SessionHandler {
	return &SessionHandler{deps: deps}
}

type createSessionRequest struct {
	MatchID int `json:"match_id"`
}

type filtersResponse struct {
	State  session.State      `json:"state"`
	Result types.FilterResult `json:"result"`
}

// HandleCreate handles POST /api/sessions.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.MatchID <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("match_id must be a positive integer")))
		return
	}
	st, err := h.deps.CreateSession(r.Context(), req.MatchID)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+st.ID)
	writeJSON(w, http.StatusCreated, st)
}

// HandleGet handles GET /api/sessions/{sessionID}.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	st, err := h.deps.Session(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleDelete handles DELETE /api/sessions/{sessionID}.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_session"
	if err := h.deps.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeFailure(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSubmitFilters handles PUT /api/sessions/{sessionID}/filters. Fields
// absent from the body keep their current value.
func (h *SessionHandler) HandleSubmitFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_filters"
	var form session.Form
	if err := decodeBody(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	st, res, err := h.deps.SubmitFilters(r.Context(), chi.URLParam(r, "sessionID"), form)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, filtersResponse{State: st, Result: res})
}

// HandleExport handles GET /api/sessions/{sessionID}/export?format=.
func (h *SessionHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.session_export"
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	st, events, err := h.deps.SessionView(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeExport(w, op, format, format.FileName(st.MatchID, "filtered"), events)
}

func decodeBody(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("unsupported content type %q", ct)
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
