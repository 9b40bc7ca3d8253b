package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/league-book/internal/database"
	"github.com/yourusername/league-book/internal/models"
)

// PostgresAccountRepository implements AccountRepository for PostgreSQL
type PostgresAccountRepository struct {
	db *database.DB
}

// NewPostgresAccountRepository creates a new account repository
func NewPostgresAccountRepository(db *database.DB) AccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `id, display_name, rating, experience, currency, wins, losses,
	shutouts_for, shutouts_against, bonus_events, season_index, created_at, updated_at`

// Create inserts a new player account
func (a *PostgresAccountRepository) Create(ctx context.Context, account *models.PlayerAccount) error {
	query := `
		INSERT INTO players (id, display_name, rating, experience, currency, wins, losses,
		                     shutouts_for, shutouts_against, bonus_events, season_index, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := a.db.GetPool().Exec(ctx, query,
		account.ID, account.DisplayName, account.Rating, account.Experience, account.Currency,
		account.Wins, account.Losses, account.ShutoutsFor, account.ShutoutsAgainst,
		account.BonusEvents, account.SeasonIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to create player account: %w", err)
	}
	return nil
}

// GetByID retrieves a player account by ID
func (a *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PlayerAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE id = $1`, accountColumns)

	row := a.db.GetPool().QueryRow(ctx, query, id)
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player account: %w", err)
	}
	return account, nil
}

// Credit adds amount to the player's balance
func (a *PostgresAccountRepository) Credit(ctx context.Context, id uuid.UUID, amount int) error {
	query := `UPDATE players SET currency = currency + $2, updated_at = NOW() WHERE id = $1`
	commandTag, err := a.db.GetPool().Exec(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to credit player: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Debit subtracts amount from the player's balance. The balance guard lives
// in the WHERE clause so two racing debits cannot drive the balance negative.
func (a *PostgresAccountRepository) Debit(ctx context.Context, id uuid.UUID, amount int) error {
	query := `
		UPDATE players SET currency = currency - $2, updated_at = NOW()
		WHERE id = $1 AND currency >= $2
	`
	commandTag, err := a.db.GetPool().Exec(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to debit player: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		// Distinguish a missing account from an under-funded one.
		if _, getErr := a.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return models.ErrInsufficientBalance
	}
	return nil
}

// ApplyDeltas adds a match result's additive deltas onto the stored account
func (a *PostgresAccountRepository) ApplyDeltas(ctx context.Context, delta *models.PlayerDelta) error {
	query := `
		UPDATE players SET
			rating = rating + $2,
			experience = experience + $3,
			currency = currency + $4,
			wins = wins + $5,
			losses = losses + $6,
			shutouts_for = shutouts_for + $7,
			shutouts_against = shutouts_against + $8,
			bonus_events = bonus_events + $9,
			updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := a.db.GetPool().Exec(ctx, query,
		delta.PlayerID, delta.Rating, delta.Experience, delta.Currency,
		delta.Wins, delta.Losses, delta.ShutoutsFor, delta.ShutoutsAgainst, delta.BonusEvents,
	)
	if err != nil {
		return fmt.Errorf("failed to apply match deltas: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetRating rewrites the rating and advances the player's season watermark.
// The fromSeason guard makes a replayed rollover pass a no-op for players
// already compressed into toSeason.
func (a *PostgresAccountRepository) SetRating(ctx context.Context, id uuid.UUID, rating, fromSeason, toSeason int) error {
	query := `
		UPDATE players SET rating = $2, season_index = $3, updated_at = NOW()
		WHERE id = $1 AND season_index = $4
	`
	commandTag, err := a.db.GetPool().Exec(ctx, query, id, rating, toSeason, fromSeason)
	if err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListBehindSeason retrieves every account whose watermark is behind season
func (a *PostgresAccountRepository) ListBehindSeason(ctx context.Context, season int) ([]*models.PlayerAccount, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE season_index < $1 ORDER BY created_at ASC`, accountColumns)

	rows, err := a.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts behind season: %w", err)
	}
	defer rows.Close()

	var accounts []*models.PlayerAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player account: %w", err)
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*models.PlayerAccount, error) {
	account := &models.PlayerAccount{}
	err := row.Scan(
		&account.ID, &account.DisplayName, &account.Rating, &account.Experience, &account.Currency,
		&account.Wins, &account.Losses, &account.ShutoutsFor, &account.ShutoutsAgainst,
		&account.BonusEvents, &account.SeasonIndex, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}
