package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/freeeve/hexfrontier/internal/logger"
	"github.com/freeeve/hexfrontier/internal/service"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

// SessionHandler serves the game session endpoints: lifecycle, action
// submission, and the read-only query surface used by the presentation layer.
type SessionHandler struct {
	svc *service.SessionService
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Register mounts the session routes on mux.
func (h *SessionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/sessions", h.CreateSession)
	mux.HandleFunc("GET /api/v1/sessions", h.ListSessions)
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.GetSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", h.DeleteSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}/state", h.GetState)
	mux.HandleFunc("POST /api/v1/sessions/{id}/actions", h.SubmitAction)
	mux.HandleFunc("POST /api/v1/sessions/{id}/advance", h.Advance)
	mux.HandleFunc("GET /api/v1/sessions/{id}/units/{unitId}/reachable", h.Reachable)
	mux.HandleFunc("GET /api/v1/sessions/{id}/units/{unitId}/targets", h.Targets)
	mux.HandleFunc("GET /api/v1/sessions/{id}/combat-preview", h.CombatPreview)
	mux.HandleFunc("GET /api/v1/sessions/{id}/floor-prices", h.FloorPrices)
	mux.HandleFunc("GET /api/v1/sessions/{id}/progress", h.Progress)
	mux.HandleFunc("GET /api/v1/sessions/{id}/mints", h.PendingMints)
	mux.HandleFunc("POST /api/v1/sessions/{id}/mints/{mintId}", h.Mint)
	mux.HandleFunc("GET /api/v1/sessions/{id}/settlements/{settlementId}/milestones", h.Milestones)
	mux.HandleFunc("GET /api/v1/sessions/{id}/trade/destinations", h.TradeDestinations)
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sum, err := h.svc.CreateSession(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sum)
}

// ListSessions handles GET /api/v1/sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListSessions())
}

// GetSession handles GET /api/v1/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// DeleteSession handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSession(r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetState handles GET /api/v1/sessions/{id}/state
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.State(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

// SubmitAction handles POST /api/v1/sessions/{id}/actions. The body is the
// action envelope {"type": "...", "payload": {...}}.
func (h *SessionHandler) SubmitAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var raw json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a, err := hexgame.UnmarshalAction(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := logger.WithSessionID(r.Context(), id)
	gs, err := h.svc.Submit(ctx, id, a)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

// Advance handles POST /api/v1/sessions/{id}/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	gs, err := h.svc.Advance(logger.WithSessionID(r.Context(), id), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

// Reachable handles GET /api/v1/sessions/{id}/units/{unitId}/reachable
func (h *SessionHandler) Reachable(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.state(w, r)
	if !ok {
		return
	}
	unitID := r.PathValue("unitId")
	if _, ok := gs.Units[unitID]; !ok {
		writeError(w, http.StatusNotFound, "unit not found")
		return
	}
	costs := hexgame.ReachableCosts(gs, unitID)
	type reach struct {
		Hex       hexgame.Hex `json:"hex"`
		Remaining int         `json:"remaining"`
	}
	out := make([]reach, 0, len(costs))
	for _, hx := range hexgame.ReachableHexes(gs, unitID) {
		out = append(out, reach{Hex: hx, Remaining: costs[hx]})
	}
	writeJSON(w, http.StatusOK, out)
}

// Targets handles GET /api/v1/sessions/{id}/units/{unitId}/targets
func (h *SessionHandler) Targets(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.state(w, r)
	if !ok {
		return
	}
	unitID := r.PathValue("unitId")
	u, ok := gs.Units[unitID]
	if !ok {
		writeError(w, http.StatusNotFound, "unit not found")
		return
	}
	units := hexgame.ValidTargets(gs, unitID)
	settlements := hexgame.ValidSettlementTargets(gs, unitID)
	atWar := make(map[string]bool, len(units))
	for _, id := range units {
		atWar[id] = hexgame.AtWar(gs, u.Owner, gs.Units[id].Owner)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"units":       nonNil(units),
		"settlements": nonNil(settlements),
		"at_war":      atWar,
	})
}

// CombatPreview handles GET /api/v1/sessions/{id}/combat-preview?attacker=&defender=
// or ?attacker=&settlement=
func (h *SessionHandler) CombatPreview(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.state(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	attacker := q.Get("attacker")
	var (
		p     hexgame.CombatPreview
		found bool
	)
	switch {
	case q.Get("defender") != "":
		p, found = hexgame.PreviewCombat(gs, attacker, q.Get("defender"))
	case q.Get("settlement") != "":
		p, found = hexgame.PreviewSettlementCombat(gs, attacker, q.Get("settlement"))
	default:
		writeError(w, http.StatusBadRequest, "defender or settlement is required")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "unit or settlement not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// FloorPrices handles GET /api/v1/sessions/{id}/floor-prices
func (h *SessionHandler) FloorPrices(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.state(w, r)
	if !ok {
		return
	}
	out := make(map[hexgame.TribeID]hexgame.FloorPrice, len(gs.Players))
	for _, p := range gs.Players {
		out[p.Tribe] = hexgame.FloorPriceBreakdown(gs, p.Tribe)
	}
	writeJSON(w, http.StatusOK, out)
}

// Progress handles GET /api/v1/sessions/{id}/progress
func (h *SessionHandler) Progress(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.state(w, r)
	if !ok {
		return
	}
	tribe, _ := h.svc.HumanTribe(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]any{
		"research":           hexgame.ResearchProgress(gs, tribe),
		"culture":            hexgame.CultureProgress(gs, tribe),
		"available_techs":    nonNil(hexgame.AvailableTechs(gs, tribe)),
		"available_cultures": nonNil(hexgame.AvailableCultures(gs, tribe)),
		"can_swap_policies":  hexgame.CanSwapPolicies(gs, tribe),
		"yields":             hexgame.PlayerYields(gs, tribe),
		"trade_income":       hexgame.TradeIncome(gs, tribe),
		"trade_capacity":     hexgame.TradeCapacity(gs, tribe),
	})
}

// PendingMints handles GET /api/v1/sessions/{id}/mints
func (h *SessionHandler) PendingMints(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.state(w, r)
	if !ok {
		return
	}
	tribe, _ := h.svc.HumanTribe(r.PathValue("id"))
	writeJSON(w, http.StatusOK, nonNil(hexgame.PendingMints(gs, tribe)))
}

// Mint handles POST /api/v1/sessions/{id}/mints/{mintId}
func (h *SessionHandler) Mint(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	gs, err := h.svc.Mint(logger.WithSessionID(r.Context(), id), id, r.PathValue("mintId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

// Milestones handles GET /api/v1/sessions/{id}/settlements/{settlementId}/milestones
func (h *SessionHandler) Milestones(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.state(w, r)
	if !ok {
		return
	}
	sid := r.PathValue("settlementId")
	if _, ok := gs.Settlements[sid]; !ok {
		writeError(w, http.StatusNotFound, "settlement not found")
		return
	}
	type option struct {
		Level int                     `json:"level"`
		A     hexgame.MilestoneReward `json:"a"`
		B     hexgame.MilestoneReward `json:"b"`
	}
	var out []option
	for _, lvl := range hexgame.PendingMilestones(gs, sid) {
		a, b, ok := hexgame.MilestoneOptions(lvl)
		if ok {
			out = append(out, option{Level: lvl, A: a, B: b})
		}
	}
	writeJSON(w, http.StatusOK, nonNil(out))
}

// TradeDestinations handles GET /api/v1/sessions/{id}/trade/destinations?origin=
func (h *SessionHandler) TradeDestinations(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.state(w, r)
	if !ok {
		return
	}
	origin := r.URL.Query().Get("origin")
	if _, ok := gs.Settlements[origin]; !ok {
		writeError(w, http.StatusNotFound, "settlement not found")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	dests := hexgame.TradeDestinations(gs, origin)
	if limit > 0 && len(dests) > limit {
		dests = dests[:limit]
	}
	writeJSON(w, http.StatusOK, nonNil(dests))
}

func (h *SessionHandler) state(w http.ResponseWriter, r *http.Request) (*hexgame.GameState, bool) {
	gs, err := h.svc.State(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return nil, false
	}
	return gs, true
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
