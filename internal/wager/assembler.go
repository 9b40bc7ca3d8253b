// Package wager assembles multi-leg wagers against live matches and settles
// them once the match is archived.
package wager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/league-book/internal/config"
	"github.com/yourusername/league-book/internal/ledger"
	"github.com/yourusername/league-book/internal/logger"
	"github.com/yourusername/league-book/internal/metrics"
	"github.com/yourusername/league-book/internal/models"
	"github.com/yourusername/league-book/internal/pricing"
	"github.com/yourusername/league-book/internal/repository"
)

// PlacementRequest carries one bettor's leg selections for a match. The
// expected leg count is declared explicitly to defend against partial-form
// submissions.
type PlacementRequest struct {
	BettorID         uuid.UUID             `validate:"required"`
	BettorName       string                `validate:"required"`
	MatchID          uuid.UUID             `validate:"required"`
	Legs             models.LegPredictions `validate:"required"`
	ExpectedLegCount int                   `validate:"required,gt=0"`
	Stake            int                   `validate:"required,gt=0"`
}

// Assembler validates and prices wager placements. Odds are resolved at
// placement time and snapshotted immutably into the persisted wager.
type Assembler struct {
	matches  repository.MatchRepository
	wagers   repository.WagerRepository
	accounts ledger.Accessor
	calc     *pricing.Calculator
	cfg      *config.WageringConfig
	logger   *logrus.Logger
	audit    *logger.AuditLogger

	mu       sync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
}

// NewAssembler creates a new wager assembler
func NewAssembler(
	matches repository.MatchRepository,
	wagers repository.WagerRepository,
	accounts ledger.Accessor,
	calc *pricing.Calculator,
	cfg *config.WageringConfig,
	log *logrus.Logger,
	audit *logger.AuditLogger,
) *Assembler {
	return &Assembler{
		matches:  matches,
		wagers:   wagers,
		accounts: accounts,
		calc:     calc,
		cfg:      cfg,
		logger:   log,
		audit:    audit,
		limiters: make(map[uuid.UUID]*rate.Limiter),
	}
}

// PlaceWager validates the request, prices every selected leg at current
// ratings, persists the pending wager and debits the stake. Validation is
// strictly ordered so an under-funded or malformed placement is rejected
// before any mutation.
func (a *Assembler) PlaceWager(ctx context.Context, req *PlacementRequest) (*models.Wager, error) {
	if !a.limiter(req.BettorID).Allow() {
		metrics.RecordWagerRejected("throttled")
		return nil, models.ErrPlacementThrottled
	}

	// 1. Stake must be positive and covered by the current balance.
	if req.Stake <= 0 {
		metrics.RecordWagerRejected("stake")
		return nil, models.ErrInvalidStake
	}
	balance, err := a.accounts.GetBalance(ctx, req.BettorID)
	if err != nil {
		return nil, fmt.Errorf("failed to read bettor balance: %w", err)
	}
	if req.Stake > balance {
		metrics.RecordWagerRejected("balance")
		return nil, models.ErrInsufficientBalance
	}

	// 2. The match must exist and accept wagers.
	match, err := a.matches.GetByID(ctx, req.MatchID)
	if err != nil {
		metrics.RecordWagerRejected("match")
		return nil, err
	}
	if !match.IsOpen() {
		metrics.RecordWagerRejected("match")
		return nil, models.ErrMatchNotOpen
	}

	// 3. Every selected leg must reference this match.
	if err := validateLegs(&req.Legs, match); err != nil {
		metrics.RecordWagerRejected("legs")
		return nil, err
	}

	// 4. The populated legs must match the declared count.
	if req.Legs.PopulatedLegs() != req.ExpectedLegCount {
		metrics.RecordWagerRejected("leg_count")
		return nil, models.ErrLegCountMismatch
	}

	snapshot, err := a.priceLegs(ctx, match, &req.Legs)
	if err != nil {
		return nil, err
	}

	wager := &models.Wager{
		ID:         uuid.New(),
		BettorID:   req.BettorID,
		BettorName: req.BettorName,
		MatchID:    match.ID,
		Legs:       req.Legs,
		Stake:      req.Stake,
		Status:     models.WagerStatusPending,
		Odds:       snapshot,
		TotalOdds:  pricing.Round2(snapshot.Product()),
		LegCount:   req.Legs.PopulatedLegs(),
		CreatedAt:  time.Now().UTC(),
	}

	// Debit before create: the balance guard in the store rejects a racing
	// over-spend, and a failed create is compensated below. A crash between
	// the two is handled by operational reconciliation.
	if err := a.accounts.Debit(ctx, req.BettorID, req.Stake); err != nil {
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}
	a.audit.LogBalanceChange(req.BettorID, "debit", req.Stake, "wager stake")

	if err := a.wagers.Create(ctx, wager); err != nil {
		if creditErr := a.accounts.Credit(ctx, req.BettorID, req.Stake); creditErr != nil {
			a.logger.WithError(creditErr).WithField("bettor_id", req.BettorID).
				Error("Failed to refund stake after wager create failure, manual reconciliation required")
		}
		return nil, fmt.Errorf("failed to create wager: %w", err)
	}

	metrics.RecordWagerPlaced()
	a.audit.LogWagerPlacement(wager.ID, wager.BettorID, wager.MatchID, wager.Stake, wager.LegCount, wager.TotalOdds, wager.CreatedAt)

	return wager, nil
}

// priceLegs resolves ratings and statistics at placement time, prices the
// whole match, and extracts the odds of exactly the selected legs.
func (a *Assembler) priceLegs(ctx context.Context, match *models.Match, legs *models.LegPredictions) (models.MarketOdds, error) {
	ratings := make(map[uuid.UUID]int)
	stats := make(map[uuid.UUID]models.PlayerStats)
	for _, id := range match.Participants() {
		rating, err := a.accounts.GetRating(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve rating: %w", err)
		}
		ratings[id] = rating

		playerStats, err := a.accounts.GetHistoricalStats(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve historical stats: %w", err)
		}
		stats[id] = playerStats
	}

	metrics.RecordPricingRequest()
	prices := a.calc.PriceMatch(match, ratings, stats)

	snapshot := make(models.MarketOdds, legs.PopulatedLegs())
	for round, side := range legs.RoundWinners {
		price := prices.Rounds[round-1]
		if side == models.RoundSideA {
			snapshot[models.RoundWinnerKey(round)] = price.OddsA
		} else {
			snapshot[models.RoundWinnerKey(round)] = price.OddsB
		}
	}
	if legs.Threshold != "" {
		snapshot[models.MarketKeyThreshold] = prices.Threshold[legs.Threshold]
	}
	if legs.TotalScore != nil {
		odds, ok := prices.Totals[*legs.TotalScore]
		if !ok {
			return nil, models.ErrInvalidLeg
		}
		snapshot[models.MarketKeyTotalSum] = odds
	}

	return snapshot, nil
}

// validateLegs checks that every populated leg references the match. The
// legacy per-player minimum-count format is settlement-only and is rejected
// on new placements.
func validateLegs(legs *models.LegPredictions, match *models.Match) error {
	if len(legs.MinCounts) > 0 {
		return models.ErrInvalidLeg
	}
	for round, side := range legs.RoundWinners {
		if round < 1 || round > match.RoundCount || round > len(match.RoundPlan) {
			return models.ErrUnknownRound
		}
		if side != models.RoundSideA && side != models.RoundSideB {
			return models.ErrInvalidLeg
		}
	}
	if legs.Threshold != "" && !legs.Threshold.IsValid() {
		return models.ErrInvalidLeg
	}
	return nil
}

// limiter returns the per-bettor placement limiter, creating it on first use.
func (a *Assembler) limiter(bettorID uuid.UUID) *rate.Limiter {
	a.mu.Lock()
	defer a.mu.Unlock()

	if l, ok := a.limiters[bettorID]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(float64(a.cfg.PlacementsPerMinute)/60.0), a.cfg.PlacementBurst)
	a.limiters[bettorID] = l
	return l
}
