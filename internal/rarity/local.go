package rarity

import (
	"context"
	"hash/fnv"

	"golang.org/x/exp/rand"

	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

// LocalSource rolls rarities from a seeded PCG generator. The same seed,
// player and nonce always give the same roll, which keeps bot matches and
// tests reproducible.
type LocalSource struct {
	seed uint64
}

// NewLocalSource returns a LocalSource for a game seed.
func NewLocalSource(seed int64) *LocalSource {
	return &LocalSource{seed: uint64(seed)}
}

// RollValue returns the raw roll in [0,99] for a player and nonce.
func (s *LocalSource) RollValue(player string, nonce uint64) int {
	h := fnv.New64a()
	h.Write([]byte(player))
	src := &rand.PCGSource{}
	src.Seed(s.seed ^ h.Sum64() ^ (nonce * 0x9e3779b97f4a7c15))
	return rand.New(src).Intn(100)
}

// Roll implements Source. It never blocks.
func (s *LocalSource) Roll(ctx context.Context, player string, nonce uint64) (hexgame.Rarity, error) {
	if err := ctx.Err(); err != nil {
		return hexgame.Common, err
	}
	return hexgame.RarityFromRoll(s.RollValue(player, nonce)), nil
}
