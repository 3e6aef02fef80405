package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeeve/hexfrontier/internal/model"
	"github.com/freeeve/hexfrontier/internal/rarity"
	"github.com/freeeve/hexfrontier/internal/service"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

func newTestServer(t *testing.T) (*http.ServeMux, *Hub) {
	t.Helper()
	hub := NewHub()
	svc := service.NewSessionService(rarity.NewLocalSource(5), hub, service.Options{TurnCap: 16, Width: 20, Height: 14, MaxTurns: 30})
	mux := http.NewServeMux()
	NewSessionHandler(svc).Register(mux)
	return mux, hub
}

func do(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, mux *http.ServeMux) model.SessionSummary {
	t.Helper()
	rec := do(t, mux, http.MethodPost, "/api/v1/sessions",
		`{"seed": 5, "human_tribe": "ember", "ai_tribes": ["tide", "stone"], "difficulty": "pass"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sum model.SessionSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	return sum
}

func fetchState(t *testing.T, mux *http.ServeMux, id string) *hexgame.GameState {
	t.Helper()
	rec := do(t, mux, http.MethodGet, "/api/v1/sessions/"+id+"/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var gs hexgame.GameState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gs))
	return &gs
}

func TestCreateAndGetSession(t *testing.T) {
	mux, _ := newTestServer(t)
	sum := createSession(t, mux)
	assert.NotEmpty(t, sum.ID)
	assert.Equal(t, "ember", sum.CurrentPlayer)

	rec := do(t, mux, http.MethodGet, "/api/v1/sessions/"+sum.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/v1/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, mux, http.MethodPost, "/api/v1/sessions", `{"human_tribe": "atlantis"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStateRoundTripsThroughJSON(t *testing.T) {
	mux, _ := newTestServer(t)
	sum := createSession(t, mux)
	gs := fetchState(t, mux, sum.ID)
	assert.Equal(t, 1, gs.Turn)
	assert.Len(t, gs.Players, 3)
	assert.NotEmpty(t, gs.UnitsOf(hexgame.Ember))
}

func TestSubmitActions(t *testing.T) {
	mux, hub := newTestServer(t)
	sum := createSession(t, mux)
	base := "/api/v1/sessions/" + sum.ID

	c := newTestConn("client-1")
	hub.Register(c)
	defer hub.Unregister(c)
	hub.Subscribe(c, sum.ID)

	t.Run("malformed envelope", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, base+"/actions", `{"type": "TELEPORT"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rule rejection", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, base+"/actions",
			`{"type": "START_RESEARCH", "payload": {"tech": "machinery"}}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, hexgame.ErrPrerequisite.Error(), body["code"])
	})

	t.Run("unknown unit", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, base+"/actions",
			`{"type": "FORTIFY_UNIT", "payload": {"unitId": "u999"}}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("accepted research", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, base+"/actions",
			`{"type": "START_RESEARCH", "payload": {"tech": "pottery"}}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var gs hexgame.GameState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gs))
		assert.Equal(t, hexgame.TechID("pottery"), gs.Player(hexgame.Ember).CurrentResearch)
	})

	t.Run("end turn plays the bots", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, base+"/actions", `{"type": "END_TURN"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var gs hexgame.GameState
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gs))
		assert.Equal(t, 2, gs.Turn)
		assert.Equal(t, hexgame.Ember, gs.CurrentPlayer)
	})

	kinds := map[string]bool{}
	for len(c.send) > 0 {
		var ev WSEvent
		require.NoError(t, json.Unmarshal(<-c.send, &ev))
		assert.Equal(t, sum.ID, ev.SessionID)
		kinds[ev.Type] = true
	}
	assert.True(t, kinds[service.EventActionRejected])
	assert.True(t, kinds[service.EventStateChanged])
	assert.True(t, kinds[service.EventTurnStarted])
}

func TestQueryEndpoints(t *testing.T) {
	mux, _ := newTestServer(t)
	sum := createSession(t, mux)
	base := "/api/v1/sessions/" + sum.ID
	gs := fetchState(t, mux, sum.ID)
	units := gs.UnitsOf(hexgame.Ember)
	require.NotEmpty(t, units)
	unit := units[0]

	t.Run("reachable includes own tile", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, base+"/units/"+unit.ID+"/reachable", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var out []struct {
			Hex hexgame.Hex `json:"hex"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		found := false
		for _, r := range out {
			if r.Hex == unit.Position {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("targets", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, base+"/units/"+unit.ID+"/targets", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = do(t, mux, http.MethodGet, base+"/units/nope/targets", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("combat preview needs a defender", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, base+"/combat-preview?attacker="+unit.ID, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = do(t, mux, http.MethodGet, base+"/combat-preview?attacker="+unit.ID+"&defender=u999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("floor prices", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, base+"/floor-prices", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var out map[string]hexgame.FloorPrice
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Len(t, out, 3)
	})

	t.Run("progress and mints", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, base+"/progress", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = do(t, mux, http.MethodGet, base+"/mints", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
		rec = do(t, mux, http.MethodPost, base+"/mints/m1", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("trade destinations need a settlement", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, base+"/trade/destinations?origin=s404", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteSession(t *testing.T) {
	mux, _ := newTestServer(t)
	sum := createSession(t, mux)
	rec := do(t, mux, http.MethodDelete, "/api/v1/sessions/"+sum.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, mux, http.MethodGet, "/api/v1/sessions/"+sum.ID+"/state", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
