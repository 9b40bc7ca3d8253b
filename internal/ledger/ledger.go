// Package ledger exposes player balances, ratings and historical statistics
// to the wagering engine.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/league-book/internal/models"
	"github.com/yourusername/league-book/internal/repository"
)

// Accessor is the profile/ledger collaborator of the wagering core.
//
// Read operations used purely for pricing degrade to safe defaults when the
// store is unavailable, so pricing always produces a valid clamped number.
// Money-moving operations always propagate their failures.
type Accessor interface {
	GetBalance(ctx context.Context, playerID uuid.UUID) (int, error)
	Credit(ctx context.Context, playerID uuid.UUID, amount int) error
	Debit(ctx context.Context, playerID uuid.UUID, amount int) error
	GetRating(ctx context.Context, playerID uuid.UUID) (int, error)
	SetRating(ctx context.Context, playerID uuid.UUID, rating int) error
	GetHistoricalStats(ctx context.Context, playerID uuid.UUID) (models.PlayerStats, error)
}

// Service implements Accessor on top of the account repository, with a TTL
// cache in front of the historical stats the odds calculator hits on every
// pricing request.
type Service struct {
	accounts repository.AccountRepository
	stats    *cache.Cache
	logger   *logrus.Logger
}

// NewService creates a new ledger service
func NewService(accounts repository.AccountRepository, statsTTL time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		accounts: accounts,
		stats:    cache.New(statsTTL, 2*statsTTL),
		logger:   logger,
	}
}

// GetBalance returns the player's current currency balance
func (s *Service) GetBalance(ctx context.Context, playerID uuid.UUID) (int, error) {
	account, err := s.accounts.GetByID(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return account.Currency, nil
}

// Credit adds amount to the player's balance
func (s *Service) Credit(ctx context.Context, playerID uuid.UUID, amount int) error {
	return s.accounts.Credit(ctx, playerID, amount)
}

// Debit subtracts amount from the player's balance, failing when it would go negative
func (s *Service) Debit(ctx context.Context, playerID uuid.UUID, amount int) error {
	return s.accounts.Debit(ctx, playerID, amount)
}

// GetRating returns the player's rating. An unknown player or an unavailable
// store prices as the baseline rating instead of failing the request.
func (s *Service) GetRating(ctx context.Context, playerID uuid.UUID) (int, error) {
	account, err := s.accounts.GetByID(ctx, playerID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.WithError(err).WithField("player_id", playerID).Warn("Rating lookup degraded to baseline")
		}
		return models.BaselineRating, nil
	}
	return account.Rating, nil
}

// SetRating rewrites the player's rating without touching the season watermark
func (s *Service) SetRating(ctx context.Context, playerID uuid.UUID, rating int) error {
	account, err := s.accounts.GetByID(ctx, playerID)
	if err != nil {
		return err
	}
	return s.accounts.SetRating(ctx, playerID, rating, account.SeasonIndex, account.SeasonIndex)
}

// GetHistoricalStats returns the player's running win/loss/bonus-event
// aggregates. Results are cached briefly; a store failure degrades to empty
// stats, which the calculator prices with its default rates.
func (s *Service) GetHistoricalStats(ctx context.Context, playerID uuid.UUID) (models.PlayerStats, error) {
	key := playerID.String()
	if cached, found := s.stats.Get(key); found {
		if stats, ok := cached.(models.PlayerStats); ok {
			return stats, nil
		}
	}

	account, err := s.accounts.GetByID(ctx, playerID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.WithError(err).WithField("player_id", playerID).Warn("Stats lookup degraded to empty")
		}
		return models.PlayerStats{}, nil
	}

	stats := models.PlayerStats{
		Wins:        account.Wins,
		Losses:      account.Losses,
		BonusEvents: account.BonusEvents,
	}
	s.stats.SetDefault(key, stats)
	return stats, nil
}

// InvalidateStats drops the cached aggregates for a player, used after a
// match result rewrites the underlying counters.
func (s *Service) InvalidateStats(playerID uuid.UUID) {
	s.stats.Delete(playerID.String())
}
