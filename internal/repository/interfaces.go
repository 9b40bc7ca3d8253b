// Package repository provides data access interfaces and their PostgreSQL
// implementations. It is the single codec boundary of the engine: structured
// sub-objects (round plans, outcomes, leg predictions, odds snapshots) are
// encoded to and decoded from their stored JSONB form here, exactly once.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/league-book/internal/models"
)

// MatchRepository defines data access for matches
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.MatchStatus) error
	Archive(ctx context.Context, id uuid.UUID, rounds []models.RoundOutcome) error
}

// WagerRepository defines data access for wagers
type WagerRepository interface {
	Create(ctx context.Context, wager *models.Wager) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Wager, error)
	GetByBettorID(ctx context.Context, bettorID uuid.UUID) ([]*models.Wager, error)
	GetPendingByMatchID(ctx context.Context, matchID uuid.UUID) ([]*models.Wager, error)
	// Settle records the settlement outcome for a wager. The update is
	// status-guarded: it only applies while the stored row is still pending,
	// and returns models.ErrWagerSettled otherwise.
	Settle(ctx context.Context, wager *models.Wager) error
}

// AccountRepository defines data access for player accounts
type AccountRepository interface {
	Create(ctx context.Context, account *models.PlayerAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PlayerAccount, error)
	// Credit adds amount to the player's currency balance.
	Credit(ctx context.Context, id uuid.UUID, amount int) error
	// Debit subtracts amount, failing with models.ErrInsufficientBalance
	// when the stored balance cannot cover it.
	Debit(ctx context.Context, id uuid.UUID, amount int) error
	// ApplyDeltas adds a match result's additive deltas onto the account,
	// keeping the stored running aggregates current for pricing.
	ApplyDeltas(ctx context.Context, delta *models.PlayerDelta) error
	// SetRating rewrites the rating and season watermark, guarded on the
	// previous watermark so an interrupted rollover never compresses twice.
	SetRating(ctx context.Context, id uuid.UUID, rating, fromSeason, toSeason int) error
	ListBehindSeason(ctx context.Context, season int) ([]*models.PlayerAccount, error)
}

// SeasonRepository persists the last fully processed season index.
type SeasonRepository interface {
	GetLastSeason(ctx context.Context) (int, error)
	SetLastSeason(ctx context.Context, season int) error
}

// Repositories groups every repository for dependency injection
type Repositories struct {
	Matches  MatchRepository
	Wagers   WagerRepository
	Accounts AccountRepository
	Seasons  SeasonRepository
}
