//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeeve/hexfrontier/internal/model"
	"github.com/freeeve/hexfrontier/internal/repository/store"
	"github.com/freeeve/hexfrontier/internal/testutil"
)

func TestMatchRepoPostgres(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.CleanupDB(t, db)
	repo := store.NewMatchRepo(db)
	ctx := context.Background()

	m := &model.MatchResult{
		ID:           "pg-match-1",
		Seed:         99,
		Winner:       "stone",
		Turns:        80,
		MaxTurns:     80,
		Width:        28,
		Height:       20,
		Participants: json.RawMessage(`{"stone":"hard","tide":"easy"}`),
		FloorPrices:  json.RawMessage(`{"stone":900,"tide":400}`),
		DurationMS:   1200,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, repo.SaveMatch(ctx, m))

	got, err := repo.FindMatch(ctx, "pg-match-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "stone", got.Winner)
	assert.JSONEq(t, string(m.Participants), string(got.Participants))

	wins, err := repo.WinCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, wins["stone"])
}
