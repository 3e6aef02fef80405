package rarity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/hexfrontier/internal/repository"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

const (
	DefaultPollInterval = 250 * time.Millisecond
	DefaultTimeout      = 10 * time.Second
)

// OracleSource requests a roll through a RarityStore and polls until an
// external fulfiller writes the result.
type OracleSource struct {
	store    repository.RarityStore
	interval time.Duration
	timeout  time.Duration
}

// NewOracleSource creates an OracleSource. Zero durations use the defaults.
func NewOracleSource(store repository.RarityStore, interval, timeout time.Duration) *OracleSource {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OracleSource{store: store, interval: interval, timeout: timeout}
}

// Roll implements Source. It returns ErrRarityTimeout if the roll is not
// fulfilled within the configured timeout.
func (o *OracleSource) Roll(ctx context.Context, player string, nonce uint64) (hexgame.Rarity, error) {
	if err := o.store.RequestRoll(ctx, player, nonce); err != nil {
		return hexgame.Common, fmt.Errorf("request roll %s/%d: %w", player, nonce, err)
	}
	log.Debug().Str("player", player).Uint64("nonce", nonce).Msg("rarity roll requested")

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		res, err := o.store.RollResult(ctx, player, nonce)
		if err != nil && ctx.Err() == nil {
			return hexgame.Common, fmt.Errorf("poll roll %s/%d: %w", player, nonce, err)
		}
		if res != nil && res.Fulfilled {
			return hexgame.RarityFromRoll(res.Roll), nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return hexgame.Common, fmt.Errorf("roll %s/%d after %s: %w", player, nonce, o.timeout, ErrRarityTimeout)
			}
			return hexgame.Common, ctx.Err()
		case <-ticker.C:
		}
	}
}
