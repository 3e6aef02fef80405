// Package rarity is the boundary between the deterministic game core and the
// randomness that decides a minted unit's rarity. The core only records a
// pending mint; a Source turns its nonce into a rarity outside the reducer.
package rarity

import (
	"context"
	"errors"

	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

// ErrRarityTimeout is returned when an oracle roll is not fulfilled in time.
var ErrRarityTimeout = errors.New("rarity roll timed out")

// Source resolves the rarity for one pending mint. Player identifies the
// minting tribe and nonce the mint; the pair is unique per game.
type Source interface {
	Roll(ctx context.Context, player string, nonce uint64) (hexgame.Rarity, error)
}
