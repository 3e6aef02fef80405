package repository

import (
	"context"
	"errors"
	"time"

	"github.com/freeeve/hexfrontier/internal/model"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// RarityStore holds rarity roll requests and their fulfilments.
type RarityStore interface {
	// RequestRoll records a pending roll and queues it for fulfilment.
	// Requesting the same (player, nonce) twice is a no-op.
	RequestRoll(ctx context.Context, player string, nonce uint64) error
	// RollResult returns the roll record, or nil if it was never requested.
	RollResult(ctx context.Context, player string, nonce uint64) (*model.RarityRoll, error)
	// FulfillRoll stores the random value for a requested roll.
	FulfillRoll(ctx context.Context, player string, nonce uint64, roll int) error
	// NextRollRequest blocks up to wait for a queued request; nil on timeout.
	NextRollRequest(ctx context.Context, wait time.Duration) (*model.RarityRoll, error)
}

// MatchRepository records completed bot matches.
type MatchRepository interface {
	SaveMatch(ctx context.Context, m *model.MatchResult) error
	FindMatch(ctx context.Context, id string) (*model.MatchResult, error)
	ListMatches(ctx context.Context, limit int) ([]model.MatchResult, error)
	WinCounts(ctx context.Context) (map[string]int, error)
}
