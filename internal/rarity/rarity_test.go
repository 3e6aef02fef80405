package rarity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

func TestLocalSourceDeterministic(t *testing.T) {
	a, b := NewLocalSource(42), NewLocalSource(42)
	for nonce := uint64(1); nonce <= 50; nonce++ {
		assert.Equal(t, a.RollValue("ember", nonce), b.RollValue("ember", nonce))
	}
	differs := false
	for nonce := uint64(1); nonce <= 50; nonce++ {
		if a.RollValue("ember", nonce) != NewLocalSource(43).RollValue("ember", nonce) {
			differs = true
		}
	}
	assert.True(t, differs, "changing the seed should change some rolls")
}

func TestLocalSourceDistribution(t *testing.T) {
	src := NewLocalSource(7)
	counts := make(map[hexgame.Rarity]int)
	const n = 20000
	for nonce := uint64(0); nonce < n; nonce++ {
		r, err := src.Roll(context.Background(), "tide", nonce)
		require.NoError(t, err)
		v := src.RollValue("tide", nonce)
		require.True(t, v >= 0 && v < 100, "roll %d out of range", v)
		counts[r]++
	}
	// Expected shares 50/30/15/4/1 percent, with generous tolerance.
	assert.InDelta(t, 0.50, float64(counts[hexgame.Common])/n, 0.03)
	assert.InDelta(t, 0.30, float64(counts[hexgame.Uncommon])/n, 0.03)
	assert.InDelta(t, 0.15, float64(counts[hexgame.Rare])/n, 0.02)
	assert.InDelta(t, 0.04, float64(counts[hexgame.Epic])/n, 0.01)
	assert.InDelta(t, 0.01, float64(counts[hexgame.Legendary])/n, 0.005)
}

func TestLocalSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocalSource(1).Roll(ctx, "ember", 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOracleSourceFulfilled(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := NewFulfiller(store, func() int { return 97 })
	f.wait = 10 * time.Millisecond
	go f.Run(ctx)

	src := NewOracleSource(store, 5*time.Millisecond, 2*time.Second)
	r, err := src.Roll(ctx, "grove", 12)
	require.NoError(t, err)
	assert.Equal(t, hexgame.Epic, r)

	rec, err := store.RollResult(ctx, "grove", 12)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Fulfilled)
	assert.Equal(t, 97, rec.Roll)
	assert.Equal(t, int(hexgame.Epic), rec.Rarity)
}

func TestOracleSourceTimeout(t *testing.T) {
	store := NewMemoryStore()
	src := NewOracleSource(store, 5*time.Millisecond, 30*time.Millisecond)
	_, err := src.Roll(context.Background(), "stone", 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRarityTimeout))

	rec, err := store.RollResult(context.Background(), "stone", 3)
	require.NoError(t, err)
	require.NotNil(t, rec, "request should stay recorded for a late fulfilment")
	assert.False(t, rec.Fulfilled)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("request is idempotent", func(t *testing.T) {
		require.NoError(t, store.RequestRoll(ctx, "ember", 1))
		require.NoError(t, store.RequestRoll(ctx, "ember", 1))
		req, err := store.NextRollRequest(ctx, 10*time.Millisecond)
		require.NoError(t, err)
		require.NotNil(t, req)
		assert.Equal(t, uint64(1), req.Nonce)
		req, err = store.NextRollRequest(ctx, 10*time.Millisecond)
		require.NoError(t, err)
		assert.Nil(t, req, "duplicate request must not be queued twice")
	})

	t.Run("unknown roll", func(t *testing.T) {
		rec, err := store.RollResult(ctx, "ember", 99)
		require.NoError(t, err)
		assert.Nil(t, rec)
		assert.Error(t, store.FulfillRoll(ctx, "ember", 99, 10))
	})

	t.Run("roll range", func(t *testing.T) {
		require.NoError(t, store.RequestRoll(ctx, "tide", 2))
		assert.Error(t, store.FulfillRoll(ctx, "tide", 2, 100))
		assert.NoError(t, store.FulfillRoll(ctx, "tide", 2, 0))
	})

	t.Run("fifo", func(t *testing.T) {
		s := NewMemoryStore()
		for n := uint64(1); n <= 3; n++ {
			require.NoError(t, s.RequestRoll(ctx, "gale", n))
		}
		for n := uint64(1); n <= 3; n++ {
			req, err := s.NextRollRequest(ctx, 10*time.Millisecond)
			require.NoError(t, err)
			require.NotNil(t, req)
			assert.Equal(t, n, req.Nonce)
		}
	})
}
