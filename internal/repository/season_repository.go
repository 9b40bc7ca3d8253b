package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/league-book/internal/database"
)

// PostgresSeasonRepository implements SeasonRepository for PostgreSQL
type PostgresSeasonRepository struct {
	db *database.DB
}

// NewPostgresSeasonRepository creates a new season repository
func NewPostgresSeasonRepository(db *database.DB) SeasonRepository {
	return &PostgresSeasonRepository{db: db}
}

// GetLastSeason returns the last fully processed season index
func (s *PostgresSeasonRepository) GetLastSeason(ctx context.Context) (int, error) {
	var season int
	err := s.db.GetPool().QueryRow(ctx, `SELECT last_season FROM season_state WHERE id = 1`).Scan(&season)
	if err != nil {
		return 0, fmt.Errorf("failed to get last season: %w", err)
	}
	return season, nil
}

// SetLastSeason advances the watermark; it never moves backwards
func (s *PostgresSeasonRepository) SetLastSeason(ctx context.Context, season int) error {
	query := `
		UPDATE season_state SET last_season = $1, updated_at = NOW()
		WHERE id = 1 AND last_season < $1
	`
	if _, err := s.db.GetPool().Exec(ctx, query, season); err != nil {
		return fmt.Errorf("failed to set last season: %w", err)
	}
	return nil
}
