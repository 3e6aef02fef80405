package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freeeve/hexfrontier/internal/model"
	"github.com/freeeve/hexfrontier/internal/repository"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

// Key patterns for rarity rolls.
const rollQueueKey = "rarity:requests"

func rollKey(player string, nonce uint64) string {
	return "rarity:" + player + ":" + strconv.FormatUint(nonce, 10)
}

func queueEntry(player string, nonce uint64) string {
	return player + "|" + strconv.FormatUint(nonce, 10)
}

func parseQueueEntry(s string) (string, uint64, error) {
	player, n, ok := strings.Cut(s, "|")
	if !ok {
		return "", 0, fmt.Errorf("malformed roll request %q", s)
	}
	nonce, err := strconv.ParseUint(n, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed roll request %q: %w", s, err)
	}
	return player, nonce, nil
}

// RequestRoll records a pending roll and queues it. A repeated request for
// the same player and nonce does not queue it twice.
func (c *Client) RequestRoll(ctx context.Context, player string, nonce uint64) error {
	created, err := c.rdb.HSetNX(ctx, rollKey(player, nonce), "requested_at", time.Now().UTC().Format(time.RFC3339Nano)).Result()
	if err != nil {
		return fmt.Errorf("request roll: %w", err)
	}
	if !created {
		return nil
	}
	if err := c.rdb.RPush(ctx, rollQueueKey, queueEntry(player, nonce)).Err(); err != nil {
		return fmt.Errorf("queue roll: %w", err)
	}
	return nil
}

// RollResult returns the stored roll, or nil if it was never requested.
func (c *Client) RollResult(ctx context.Context, player string, nonce uint64) (*model.RarityRoll, error) {
	fields, err := c.rdb.HGetAll(ctx, rollKey(player, nonce)).Result()
	if err != nil {
		return nil, fmt.Errorf("get roll: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	r := &model.RarityRoll{Player: player, Nonce: nonce}
	if t, err := time.Parse(time.RFC3339Nano, fields["requested_at"]); err == nil {
		r.RequestedAt = t
	}
	if fields["fulfilled"] != "1" {
		return r, nil
	}
	r.Fulfilled = true
	r.Roll, _ = strconv.Atoi(fields["roll"])
	r.Rarity, _ = strconv.Atoi(fields["rarity"])
	if t, err := time.Parse(time.RFC3339Nano, fields["fulfilled_at"]); err == nil {
		r.FulfilledAt = &t
	}
	return r, nil
}

// FulfillRoll stores the random value for a requested roll.
func (c *Client) FulfillRoll(ctx context.Context, player string, nonce uint64, roll int) error {
	if roll < 0 || roll > 99 {
		return fmt.Errorf("fulfill %s/%d: roll %d out of range", player, nonce, roll)
	}
	key := rollKey(player, nonce)
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("fulfill roll: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("fulfill %s/%d: %w", player, nonce, repository.ErrNotFound)
	}
	err = c.rdb.HSet(ctx, key,
		"roll", roll,
		"rarity", int(hexgame.RarityFromRoll(roll)),
		"fulfilled", "1",
		"fulfilled_at", time.Now().UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return fmt.Errorf("fulfill roll: %w", err)
	}
	return nil
}

// NextRollRequest pops the oldest queued request, blocking up to wait.
// It returns nil, nil when nothing arrives in time.
func (c *Client) NextRollRequest(ctx context.Context, wait time.Duration) (*model.RarityRoll, error) {
	res, err := c.rdb.BLPop(ctx, wait, rollQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next roll request: %w", err)
	}
	// res is [key, value].
	player, nonce, err := parseQueueEntry(res[1])
	if err != nil {
		return nil, err
	}
	r, err := c.RollResult(ctx, player, nonce)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("roll %s/%d: %w", player, nonce, repository.ErrNotFound)
	}
	return r, nil
}

var _ repository.RarityStore = (*Client)(nil)
