package database

import (
	"context"
	"fmt"

	"github.com/yourusername/rinkwar/internal/config"
)

// Schema creates the season WAR tables. Runs are append-only; every run
// stores its complete season table.
const Schema = `
CREATE TABLE IF NOT EXISTS season_war_runs (
	id                UUID PRIMARY KEY,
	fingerprint       TEXT NOT NULL,
	records_in        INTEGER NOT NULL,
	records_skipped   INTEGER NOT NULL,
	qualified_players INTEGER NOT NULL,
	config_warnings   INTEGER NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS season_war_rows (
	run_id            UUID NOT NULL REFERENCES season_war_runs(id) ON DELETE CASCADE,
	rank              INTEGER NOT NULL,
	player_id         TEXT NOT NULL,
	player_name       TEXT NOT NULL,
	detailed_position TEXT NOT NULL,
	war_value         DOUBLE PRECISION NOT NULL,
	offensive_war     DOUBLE PRECISION NOT NULL,
	defensive_war     DOUBLE PRECISION NOT NULL,
	teamplay_war      DOUBLE PRECISION NOT NULL,
	games_played      INTEGER NOT NULL,
	war_per_game      DOUBLE PRECISION NOT NULL,
	goals             INTEGER NOT NULL,
	assists           INTEGER NOT NULL,
	points            INTEGER NOT NULL,
	plus_minus        INTEGER NOT NULL,
	avg_game_impact   DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, player_id, player_name, detailed_position)
);

CREATE INDEX IF NOT EXISTS season_war_runs_created_at_idx ON season_war_runs (created_at DESC);
`

// Initialize creates a database connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates missing tables
func EnsureSchema(ctx context.Context, db *DB) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
