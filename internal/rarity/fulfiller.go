package rarity

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/freeeve/hexfrontier/internal/repository"
)

// Fulfiller plays the oracle in development: it takes queued roll requests
// from a store and answers them with a random value.
type Fulfiller struct {
	store repository.RarityStore
	roll  func() int
	wait  time.Duration
}

// NewFulfiller creates a Fulfiller. A nil roll draws uniformly from [0,99].
func NewFulfiller(store repository.RarityStore, roll func() int) *Fulfiller {
	if roll == nil {
		roll = func() int { return rand.Intn(100) }
	}
	return &Fulfiller{store: store, roll: roll, wait: time.Second}
}

// Run answers requests until ctx is cancelled.
func (f *Fulfiller) Run(ctx context.Context) {
	log.Info().Msg("rarity fulfiller started")
	for {
		req, err := f.store.NextRollRequest(ctx, f.wait)
		if ctx.Err() != nil {
			log.Info().Msg("rarity fulfiller stopped")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("rarity fulfiller: next request")
			select {
			case <-ctx.Done():
				return
			case <-time.After(f.wait):
			}
			continue
		}
		if req == nil {
			continue
		}
		roll := f.roll()
		if err := f.store.FulfillRoll(ctx, req.Player, req.Nonce, roll); err != nil {
			log.Error().Err(err).Str("player", req.Player).Uint64("nonce", req.Nonce).Msg("rarity fulfiller: fulfill")
			continue
		}
		log.Debug().Str("player", req.Player).Uint64("nonce", req.Nonce).Int("roll", roll).Msg("rarity roll fulfilled")
	}
}
