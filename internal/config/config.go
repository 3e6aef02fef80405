package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        string
	DatabaseURL string // empty disables match recording
	RedisURL    string

	RarityMode         string // "local" or "oracle"
	RarityPollInterval time.Duration
	RarityTimeout      time.Duration
	RarityDevFulfiller bool

	AITurnCap         int
	MaxTurns          int
	MapWidth          int
	MapHeight         int
	DefaultDifficulty string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:               envOrDefault("PORT", "8010"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           envOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RarityMode:         envOrDefault("RARITY_MODE", "local"),
		RarityPollInterval: envDuration("RARITY_POLL_INTERVAL", 250*time.Millisecond),
		RarityTimeout:      envDuration("RARITY_TIMEOUT", 10*time.Second),
		RarityDevFulfiller: os.Getenv("RARITY_DEV_FULFILLER") == "true",
		AITurnCap:          envInt("AI_TURN_CAP", 64),
		MaxTurns:           envInt("MAX_TURNS", 150),
		MapWidth:           envInt("MAP_WIDTH", 28),
		MapHeight:          envInt("MAP_HEIGHT", 20),
		DefaultDifficulty:  envOrDefault("DEFAULT_DIFFICULTY", "easy"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
