package database

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/league-book/internal/config"
)

// SetupTestDB creates a test database connection with the schema applied.
// Intended for integration tests gated behind a reachable Postgres.
func SetupTestDB(t *testing.T) *DB {
	cfg, err := config.LoadWithDefaults("../../config/config.test.yaml")
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to ensure test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
