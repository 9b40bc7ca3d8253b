package database

import (
	"context"
	"fmt"

	"github.com/yourusername/league-book/internal/config"
)

// Initialize creates a database connection pool and ensures the engine's
// schema exists. Structured sub-objects (round outcomes, leg predictions,
// odds snapshots) live in JSONB columns decoded at the repository edge.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the engine's tables when they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id UUID PRIMARY KEY,
			display_name TEXT NOT NULL,
			rating INTEGER NOT NULL DEFAULT 500,
			experience INTEGER NOT NULL DEFAULT 0,
			currency INTEGER NOT NULL DEFAULT 0 CHECK (currency >= 0),
			wins INTEGER NOT NULL DEFAULT 0,
			losses INTEGER NOT NULL DEFAULT 0,
			shutouts_for INTEGER NOT NULL DEFAULT 0,
			shutouts_against INTEGER NOT NULL DEFAULT 0,
			bonus_events INTEGER NOT NULL DEFAULT 0,
			season_index INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id UUID PRIMARY KEY,
			status TEXT NOT NULL,
			round_count INTEGER NOT NULL,
			round_plan JSONB NOT NULL DEFAULT '[]',
			rounds JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			archived_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS wagers (
			id UUID PRIMARY KEY,
			bettor_id UUID NOT NULL REFERENCES players(id),
			bettor_name TEXT NOT NULL DEFAULT '',
			match_id UUID NOT NULL REFERENCES matches(id),
			legs JSONB NOT NULL DEFAULT '{}',
			stake INTEGER NOT NULL CHECK (stake > 0),
			status TEXT NOT NULL DEFAULT 'pending',
			odds JSONB NOT NULL DEFAULT '{}',
			total_odds DOUBLE PRECISION NOT NULL,
			leg_count INTEGER NOT NULL,
			correct_predictions INTEGER NOT NULL DEFAULT 0,
			winnings INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			settled_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_wagers_match_status ON wagers (match_id, status)`,
		`CREATE TABLE IF NOT EXISTS season_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			last_season INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`INSERT INTO season_state (id, last_season) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}
