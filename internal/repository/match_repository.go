package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/league-book/internal/database"
	"github.com/yourusername/league-book/internal/models"
)

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Create inserts a new match
func (m *PostgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	plan, err := json.Marshal(match.RoundPlan)
	if err != nil {
		return fmt.Errorf("failed to encode round plan: %w", err)
	}
	rounds, err := json.Marshal(match.Rounds)
	if err != nil {
		return fmt.Errorf("failed to encode rounds: %w", err)
	}

	query := `
		INSERT INTO matches (id, status, round_count, round_plan, rounds, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	if _, err := m.db.GetPool().Exec(ctx, query, match.ID, match.Status, match.RoundCount, plan, rounds); err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// GetByID retrieves a match by ID
func (m *PostgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `
		SELECT id, status, round_count, round_plan, rounds, created_at, archived_at
		FROM matches WHERE id = $1
	`

	match := &models.Match{}
	var plan, rounds []byte
	err := m.db.GetPool().QueryRow(ctx, query, id).Scan(
		&match.ID, &match.Status, &match.RoundCount, &plan, &rounds, &match.CreatedAt, &match.ArchivedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	if err := json.Unmarshal(plan, &match.RoundPlan); err != nil {
		return nil, fmt.Errorf("failed to decode round plan: %w", err)
	}
	if err := json.Unmarshal(rounds, &match.Rounds); err != nil {
		return nil, fmt.Errorf("failed to decode rounds: %w", err)
	}

	return match, nil
}

// SetStatus updates the lifecycle state of a match
func (m *PostgresMatchRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.MatchStatus) error {
	commandTag, err := m.db.GetPool().Exec(ctx, `UPDATE matches SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Archive stores the final round outcomes and closes the match
func (m *PostgresMatchRepository) Archive(ctx context.Context, id uuid.UUID, rounds []models.RoundOutcome) error {
	encoded, err := json.Marshal(rounds)
	if err != nil {
		return fmt.Errorf("failed to encode rounds: %w", err)
	}

	query := `
		UPDATE matches SET status = $2, rounds = $3, archived_at = NOW()
		WHERE id = $1 AND status != $2
	`
	commandTag, err := m.db.GetPool().Exec(ctx, query, id, models.MatchStatusArchived, encoded)
	if err != nil {
		return fmt.Errorf("failed to archive match: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
