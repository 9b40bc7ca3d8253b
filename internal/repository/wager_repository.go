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

// PostgresWagerRepository implements WagerRepository for PostgreSQL
type PostgresWagerRepository struct {
	db *database.DB
}

// NewPostgresWagerRepository creates a new wager repository
func NewPostgresWagerRepository(db *database.DB) WagerRepository {
	return &PostgresWagerRepository{db: db}
}

const wagerColumns = `id, bettor_id, bettor_name, match_id, legs, stake, status, odds,
	total_odds, leg_count, correct_predictions, winnings, created_at, settled_at`

// Create inserts a new wager with its immutable odds snapshot
func (w *PostgresWagerRepository) Create(ctx context.Context, wager *models.Wager) error {
	legs, err := json.Marshal(wager.Legs)
	if err != nil {
		return fmt.Errorf("failed to encode legs: %w", err)
	}
	odds, err := json.Marshal(wager.Odds)
	if err != nil {
		return fmt.Errorf("failed to encode odds snapshot: %w", err)
	}

	query := `
		INSERT INTO wagers (id, bettor_id, bettor_name, match_id, legs, stake, status, odds,
		                    total_odds, leg_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`
	_, err = w.db.GetPool().Exec(ctx, query,
		wager.ID, wager.BettorID, wager.BettorName, wager.MatchID, legs, wager.Stake,
		wager.Status, odds, wager.TotalOdds, wager.LegCount,
	)
	if err != nil {
		return fmt.Errorf("failed to create wager: %w", err)
	}

	return nil
}

// GetByID retrieves a wager by ID
func (w *PostgresWagerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Wager, error) {
	query := fmt.Sprintf(`SELECT %s FROM wagers WHERE id = $1`, wagerColumns)

	row := w.db.GetPool().QueryRow(ctx, query, id)
	wager, err := scanWager(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wager: %w", err)
	}

	return wager, nil
}

// GetByBettorID retrieves all wagers placed by a bettor, newest first
func (w *PostgresWagerRepository) GetByBettorID(ctx context.Context, bettorID uuid.UUID) ([]*models.Wager, error) {
	query := fmt.Sprintf(`SELECT %s FROM wagers WHERE bettor_id = $1 ORDER BY created_at DESC`, wagerColumns)
	return w.queryWagers(ctx, query, bettorID)
}

// GetPendingByMatchID retrieves all unsettled wagers on a match
func (w *PostgresWagerRepository) GetPendingByMatchID(ctx context.Context, matchID uuid.UUID) ([]*models.Wager, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM wagers WHERE match_id = $1 AND status = $2 ORDER BY created_at ASC`, wagerColumns)
	return w.queryWagers(ctx, query, matchID, models.WagerStatusPending)
}

// Settle records the settlement outcome. The WHERE clause restricts the
// update to rows still pending, which makes re-settlement a no-op at the
// storage level regardless of caller discipline.
func (w *PostgresWagerRepository) Settle(ctx context.Context, wager *models.Wager) error {
	query := `
		UPDATE wagers SET status = $2, correct_predictions = $3, winnings = $4, settled_at = NOW()
		WHERE id = $1 AND status = $5
	`
	commandTag, err := w.db.GetPool().Exec(ctx, query,
		wager.ID, wager.Status, wager.CorrectPredictions, wager.Winnings, models.WagerStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to settle wager: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrWagerSettled
	}
	return nil
}

func (w *PostgresWagerRepository) queryWagers(ctx context.Context, query string, args ...interface{}) ([]*models.Wager, error) {
	rows, err := w.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wagers: %w", err)
	}
	defer rows.Close()

	var wagers []*models.Wager
	for rows.Next() {
		wager, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, wager)
	}

	return wagers, rows.Err()
}

// scanWager decodes one wager row, including its JSONB sub-documents.
func scanWager(row pgx.Row) (*models.Wager, error) {
	wager := &models.Wager{}
	var legs, odds []byte
	err := row.Scan(
		&wager.ID, &wager.BettorID, &wager.BettorName, &wager.MatchID, &legs, &wager.Stake,
		&wager.Status, &odds, &wager.TotalOdds, &wager.LegCount,
		&wager.CorrectPredictions, &wager.Winnings, &wager.CreatedAt, &wager.SettledAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(legs, &wager.Legs); err != nil {
		return nil, fmt.Errorf("failed to decode legs: %w", err)
	}
	if err := json.Unmarshal(odds, &wager.Odds); err != nil {
		return nil, fmt.Errorf("failed to decode odds snapshot: %w", err)
	}

	return wager, nil
}
