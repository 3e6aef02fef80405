// Package store implements the repository interfaces on top of sqlx so the
// same code serves PostgreSQL and SQLite.
package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS matches (
	id           TEXT PRIMARY KEY,
	seed         BIGINT NOT NULL,
	winner       TEXT NOT NULL DEFAULT '',
	turns        INTEGER NOT NULL,
	max_turns    INTEGER NOT NULL,
	width        INTEGER NOT NULL,
	height       INTEGER NOT NULL,
	actions      INTEGER NOT NULL,
	rejected     INTEGER NOT NULL,
	participants JSONB NOT NULL,
	floor_prices JSONB NOT NULL,
	duration_ms  BIGINT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS matches (
	id           TEXT PRIMARY KEY,
	seed         INTEGER NOT NULL,
	winner       TEXT NOT NULL DEFAULT '',
	turns        INTEGER NOT NULL,
	max_turns    INTEGER NOT NULL,
	width        INTEGER NOT NULL,
	height       INTEGER NOT NULL,
	actions      INTEGER NOT NULL,
	rejected     INTEGER NOT NULL,
	participants TEXT NOT NULL,
	floor_prices TEXT NOT NULL,
	duration_ms  INTEGER NOT NULL,
	created_at   DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at);
`

// Migrate creates the match tables for the connection's dialect.
func Migrate(db *sqlx.DB) error {
	var schema string
	switch db.DriverName() {
	case "postgres", "pgx":
		schema = postgresSchema
	case "sqlite", "sqlite3":
		schema = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", db.DriverName())
	}
	_, err := db.Exec(schema)
	return err
}
