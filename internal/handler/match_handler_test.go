package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeeve/hexfrontier/internal/model"
)

type fakeMatchRepo struct {
	matches []model.MatchResult
}

func (f *fakeMatchRepo) SaveMatch(_ context.Context, m *model.MatchResult) error {
	f.matches = append(f.matches, *m)
	return nil
}

func (f *fakeMatchRepo) FindMatch(_ context.Context, id string) (*model.MatchResult, error) {
	for _, m := range f.matches {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeMatchRepo) ListMatches(_ context.Context, limit int) ([]model.MatchResult, error) {
	if limit > 0 && limit < len(f.matches) {
		return f.matches[:limit], nil
	}
	return f.matches, nil
}

func (f *fakeMatchRepo) WinCounts(_ context.Context) (map[string]int, error) {
	out := map[string]int{}
	for _, m := range f.matches {
		if m.Winner != "" {
			out[m.Winner]++
		}
	}
	return out, nil
}

func TestMatchHandler(t *testing.T) {
	repo := &fakeMatchRepo{}
	mux := http.NewServeMux()
	NewMatchHandler(repo).Register(mux)

	rec := do(t, mux, http.MethodGet, "/api/v1/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	require.NoError(t, repo.SaveMatch(context.Background(), &model.MatchResult{ID: "m1", Winner: "gale"}))
	require.NoError(t, repo.SaveMatch(context.Background(), &model.MatchResult{ID: "m2", Winner: "gale"}))

	rec = do(t, mux, http.MethodGet, "/api/v1/matches/m2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var m model.MatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "m2", m.ID)

	rec = do(t, mux, http.MethodGet, "/api/v1/matches/m9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/v1/matches/wins", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"gale": 2}`, rec.Body.String())
}
