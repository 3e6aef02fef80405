package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/freeeve/hexfrontier/internal/model"
)

// matchRow mirrors the matches table. JSON columns come back as []byte from
// Postgres and as text from SQLite, so they are scanned as strings.
type matchRow struct {
	ID           string    `db:"id"`
	Seed         int64     `db:"seed"`
	Winner       string    `db:"winner"`
	Turns        int       `db:"turns"`
	MaxTurns     int       `db:"max_turns"`
	Width        int       `db:"width"`
	Height       int       `db:"height"`
	Actions      int       `db:"actions"`
	Rejected     int       `db:"rejected"`
	Participants string    `db:"participants"`
	FloorPrices  string    `db:"floor_prices"`
	DurationMS   int64     `db:"duration_ms"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r matchRow) toModel() model.MatchResult {
	return model.MatchResult{
		ID:           r.ID,
		Seed:         r.Seed,
		Winner:       r.Winner,
		Turns:        r.Turns,
		MaxTurns:     r.MaxTurns,
		Width:        r.Width,
		Height:       r.Height,
		Actions:      r.Actions,
		Rejected:     r.Rejected,
		Participants: json.RawMessage(r.Participants),
		FloorPrices:  json.RawMessage(r.FloorPrices),
		DurationMS:   r.DurationMS,
		CreatedAt:    r.CreatedAt,
	}
}

func rowFrom(m *model.MatchResult) matchRow {
	participants, prices := string(m.Participants), string(m.FloorPrices)
	if participants == "" {
		participants = "{}"
	}
	if prices == "" {
		prices = "{}"
	}
	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return matchRow{
		ID:           m.ID,
		Seed:         m.Seed,
		Winner:       m.Winner,
		Turns:        m.Turns,
		MaxTurns:     m.MaxTurns,
		Width:        m.Width,
		Height:       m.Height,
		Actions:      m.Actions,
		Rejected:     m.Rejected,
		Participants: participants,
		FloorPrices:  prices,
		DurationMS:   m.DurationMS,
		CreatedAt:    created,
	}
}

// MatchRepo stores bot match results.
type MatchRepo struct {
	db *sqlx.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sqlx.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// SaveMatch inserts a completed match.
func (r *MatchRepo) SaveMatch(ctx context.Context, m *model.MatchResult) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO matches (id, seed, winner, turns, max_turns, width, height, actions, rejected,
		                      participants, floor_prices, duration_ms, created_at)
		 VALUES (:id, :seed, :winner, :turns, :max_turns, :width, :height, :actions, :rejected,
		         :participants, :floor_prices, :duration_ms, :created_at)`,
		rowFrom(m))
	if err != nil {
		return fmt.Errorf("save match %s: %w", m.ID, err)
	}
	return nil
}

// FindMatch returns a match by id, or nil if there is none.
func (r *MatchRepo) FindMatch(ctx context.Context, id string) (*model.MatchResult, error) {
	var row matchRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT * FROM matches WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	m := row.toModel()
	return &m, nil
}

// ListMatches returns the most recent matches first.
func (r *MatchRepo) ListMatches(ctx context.Context, limit int) ([]model.MatchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []matchRow
	err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind(`SELECT * FROM matches ORDER BY created_at DESC, id LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	out := make([]model.MatchResult, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}
	return out, nil
}

// WinCounts returns the number of matches each tribe has won.
func (r *MatchRepo) WinCounts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Winner string `db:"winner"`
		Wins   int    `db:"wins"`
	}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT winner, COUNT(*) AS wins FROM matches WHERE winner <> '' GROUP BY winner`)
	if err != nil {
		return nil, fmt.Errorf("win counts: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Winner] = row.Wins
	}
	return out, nil
}
