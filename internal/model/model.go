package model

import (
	"encoding/json"
	"time"
)

// MatchResult records the outcome of a completed bot-vs-bot match.
type MatchResult struct {
	ID           string          `json:"id" db:"id"`
	Seed         int64           `json:"seed" db:"seed"`
	Winner       string          `json:"winner,omitempty" db:"winner"`
	Turns        int             `json:"turns" db:"turns"`
	MaxTurns     int             `json:"max_turns" db:"max_turns"`
	Width        int             `json:"width" db:"width"`
	Height       int             `json:"height" db:"height"`
	Actions      int             `json:"actions" db:"actions"`
	Rejected     int             `json:"rejected" db:"rejected"`
	Participants json.RawMessage `json:"participants" db:"participants"` // tribe -> difficulty
	FloorPrices  json.RawMessage `json:"floor_prices" db:"floor_prices"` // tribe -> final floor price
	DurationMS   int64           `json:"duration_ms" db:"duration_ms"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// SessionSummary describes a live game session.
type SessionSummary struct {
	ID            string    `json:"id"`
	HumanTribe    string    `json:"human_tribe,omitempty"`
	Difficulty    string    `json:"difficulty"`
	Seed          int64     `json:"seed"`
	Turn          int       `json:"turn"`
	MaxTurns      int       `json:"max_turns"`
	CurrentPlayer string    `json:"current_player"`
	Finished      bool      `json:"finished"`
	Winner        string    `json:"winner,omitempty"`
	PendingMints  int       `json:"pending_mints"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RarityRoll is one request to the rarity oracle and, once fulfilled, its
// result. Roll is in [0,99]; Rarity is the tier it maps to.
type RarityRoll struct {
	Player      string     `json:"player"`
	Nonce       uint64     `json:"nonce"`
	Roll        int        `json:"roll"`
	Rarity      int        `json:"rarity"`
	Fulfilled   bool       `json:"fulfilled"`
	RequestedAt time.Time  `json:"requested_at"`
	FulfilledAt *time.Time `json:"fulfilled_at,omitempty"`
}
