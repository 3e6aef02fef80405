package handler

import (
	"net/http"
	"strconv"

	"github.com/freeeve/hexfrontier/internal/model"
	"github.com/freeeve/hexfrontier/internal/repository"
)

// MatchHandler serves recorded bot-match results.
type MatchHandler struct {
	repo repository.MatchRepository
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(repo repository.MatchRepository) *MatchHandler {
	return &MatchHandler{repo: repo}
}

// Register mounts the match routes on mux.
func (h *MatchHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/matches", h.ListMatches)
	mux.HandleFunc("GET /api/v1/matches/wins", h.WinCounts)
	mux.HandleFunc("GET /api/v1/matches/{id}", h.GetMatch)
}

// ListMatches handles GET /api/v1/matches?limit=
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	matches, err := h.repo.ListMatches(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if matches == nil {
		matches = []model.MatchResult{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// GetMatch handles GET /api/v1/matches/{id}
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.repo.FindMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// WinCounts handles GET /api/v1/matches/wins
func (h *MatchHandler) WinCounts(w http.ResponseWriter, r *http.Request) {
	wins, err := h.repo.WinCounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, wins)
}
