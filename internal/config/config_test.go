package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "RARITY_MODE", "RARITY_TIMEOUT", "AI_TURN_CAP", "MAP_WIDTH"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "8010", c.Port)
	assert.Empty(t, c.DatabaseURL)
	assert.Equal(t, "local", c.RarityMode)
	assert.Equal(t, 10*time.Second, c.RarityTimeout)
	assert.Equal(t, 64, c.AITurnCap)
	assert.Equal(t, 28, c.MapWidth)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RARITY_MODE", "oracle")
	t.Setenv("RARITY_POLL_INTERVAL", "50ms")
	t.Setenv("AI_TURN_CAP", "12")
	t.Setenv("MAX_TURNS", "not-a-number")
	c := Load()
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, "oracle", c.RarityMode)
	assert.Equal(t, 50*time.Millisecond, c.RarityPollInterval)
	assert.Equal(t, 12, c.AITurnCap)
	assert.Equal(t, 150, c.MaxTurns)
}
