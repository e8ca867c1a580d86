package api

import (
	"net/http"
)

// CatalogHandler serves the competition, season and match listings.
type CatalogHandler struct {
	deps Catalog
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Catalog) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleCompetitions handles GET /api/competitions.
func (h *CatalogHandler) HandleCompetitions(w http.ResponseWriter, r *http.Request) {
	const op = "api.competitions"
	out, err := h.deps.Competitions(r.Context())
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSeasons handles GET /api/competitions/{competitionID}/seasons.
func (h *CatalogHandler) HandleSeasons(w http.ResponseWriter, r *http.Request) {
	const op = "api.seasons"
	cid, err := idParam(r, "competitionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := h.deps.Seasons(r.Context(), cid)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleMatches handles GET /api/competitions/{competitionID}/seasons/{seasonID}/matches.
func (h *CatalogHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.matches"
	ids, err := idParams(r, "competitionID", "seasonID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := h.deps.Matches(r.Context(), ids[0], ids[1])
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleMatchSummary handles GET /api/competitions/{competitionID}/seasons/{seasonID}/matches/{matchID}.
func (h *CatalogHandler) HandleMatchSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.match_summary"
	ids, err := idParams(r, "competitionID", "seasonID", "matchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	out, err := h.deps.MatchSummary(r.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
