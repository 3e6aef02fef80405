package rarity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/freeeve/hexfrontier/internal/model"
	"github.com/freeeve/hexfrontier/internal/repository"
	"github.com/freeeve/hexfrontier/pkg/hexgame"
)

type rollKey struct {
	player string
	nonce  uint64
}

// MemoryStore is an in-process RarityStore for development and tests.
type MemoryStore struct {
	mu    sync.Mutex
	rolls map[rollKey]*model.RarityRoll
	queue []rollKey
	ready chan struct{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rolls: make(map[rollKey]*model.RarityRoll),
		ready: make(chan struct{}, 1),
	}
}

func (m *MemoryStore) RequestRoll(_ context.Context, player string, nonce uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := rollKey{player, nonce}
	if _, ok := m.rolls[k]; ok {
		return nil
	}
	m.rolls[k] = &model.RarityRoll{Player: player, Nonce: nonce, RequestedAt: time.Now()}
	m.queue = append(m.queue, k)
	select {
	case m.ready <- struct{}{}:
	default:
	}
	return nil
}

func (m *MemoryStore) RollResult(_ context.Context, player string, nonce uint64) (*model.RarityRoll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rolls[rollKey{player, nonce}]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) FulfillRoll(_ context.Context, player string, nonce uint64, roll int) error {
	if roll < 0 || roll > 99 {
		return fmt.Errorf("fulfill %s/%d: roll %d out of range", player, nonce, roll)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rolls[rollKey{player, nonce}]
	if !ok {
		return fmt.Errorf("fulfill %s/%d: %w", player, nonce, repository.ErrNotFound)
	}
	now := time.Now()
	r.Roll = roll
	r.Rarity = int(hexgame.RarityFromRoll(roll))
	r.Fulfilled = true
	r.FulfilledAt = &now
	return nil
}

func (m *MemoryStore) NextRollRequest(ctx context.Context, wait time.Duration) (*model.RarityRoll, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		m.mu.Lock()
		if len(m.queue) > 0 {
			k := m.queue[0]
			m.queue = m.queue[1:]
			cp := *m.rolls[k]
			// Leave the signal set for whoever takes the next entry.
			if len(m.queue) > 0 {
				select {
				case m.ready <- struct{}{}:
				default:
				}
			}
			m.mu.Unlock()
			return &cp, nil
		}
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, nil
		case <-m.ready:
		}
	}
}
