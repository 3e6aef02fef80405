package store_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeeve/hexfrontier/internal/model"
	"github.com/freeeve/hexfrontier/internal/repository/sqlite"
	"github.com/freeeve/hexfrontier/internal/repository/store"
)

func newRepo(t *testing.T) *store.MatchRepo {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "matches.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return store.NewMatchRepo(db)
}

func match(id, winner string, created time.Time) *model.MatchResult {
	return &model.MatchResult{
		ID:           id,
		Seed:         42,
		Winner:       winner,
		Turns:        60,
		MaxTurns:     60,
		Width:        20,
		Height:       14,
		Actions:      900,
		Rejected:     3,
		Participants: json.RawMessage(`{"ember":"easy","tide":"hard"}`),
		FloorPrices:  json.RawMessage(`{"ember":410,"tide":530}`),
		DurationMS:   850,
		CreatedAt:    created,
	}
}

func TestMatchRepo(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("save and find", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.SaveMatch(ctx, match("m1", "tide", base)))

		got, err := repo.FindMatch(ctx, "m1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "tide", got.Winner)
		assert.Equal(t, int64(42), got.Seed)
		assert.Equal(t, 900, got.Actions)
		assert.JSONEq(t, `{"ember":410,"tide":530}`, string(got.FloorPrices))
		assert.True(t, base.Equal(got.CreatedAt), "created_at %v", got.CreatedAt)
	})

	t.Run("missing match", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.FindMatch(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.SaveMatch(ctx, match("m1", "tide", base)))
		assert.Error(t, repo.SaveMatch(ctx, match("m1", "ember", base)))
	})

	t.Run("list newest first and win counts", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.SaveMatch(ctx, match("m1", "tide", base)))
		require.NoError(t, repo.SaveMatch(ctx, match("m2", "ember", base.Add(time.Hour))))
		require.NoError(t, repo.SaveMatch(ctx, match("m3", "tide", base.Add(2*time.Hour))))
		require.NoError(t, repo.SaveMatch(ctx, match("m4", "", base.Add(3*time.Hour))))

		list, err := repo.ListMatches(ctx, 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "m4", list[0].ID)
		assert.Equal(t, "m3", list[1].ID)

		wins, err := repo.WinCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"tide": 2, "ember": 1}, wins)
	})
}
