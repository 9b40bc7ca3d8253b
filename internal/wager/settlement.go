package wager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/league-book/internal/ledger"
	"github.com/yourusername/league-book/internal/logger"
	"github.com/yourusername/league-book/internal/metrics"
	"github.com/yourusername/league-book/internal/models"
	"github.com/yourusername/league-book/internal/repository"
)

// matchOutcome is the derived read-only view of a finished match that every
// wager on it is evaluated against.
type matchOutcome struct {
	winners       []models.RoundSide
	totalBonus    int
	totalScore    int
	bonusByPlayer map[uuid.UUID]int
}

func deriveOutcome(rounds []models.RoundOutcome) *matchOutcome {
	outcome := &matchOutcome{
		winners:       make([]models.RoundSide, 0, len(rounds)),
		bonusByPlayer: make(map[uuid.UUID]int),
	}
	for _, round := range rounds {
		outcome.winners = append(outcome.winners, round.Winner())
		outcome.totalBonus += round.TotalBonusEvents()
		outcome.totalScore += round.TotalScore()
		for id, n := range round.BonusEvents {
			outcome.bonusByPlayer[id] += n
		}
	}
	return outcome
}

// SettlementSummary reports one settlement pass over a match.
type SettlementSummary struct {
	MatchID   uuid.UUID
	Evaluated int
	Won       int
	Lost      int
	Failed    int
}

// Settler resolves every pending wager on an archived match. Settlement is
// idempotent: the repository's status-guarded transition makes a replayed
// pass a no-op, and an in-process marker keeps two passes for the same match
// from running concurrently.
type Settler struct {
	matches  repository.MatchRepository
	wagers   repository.WagerRepository
	accounts ledger.Accessor
	logger   *logrus.Logger
	audit    *logger.AuditLogger

	inFlight sync.Map
}

// NewSettler creates a new settlement engine
func NewSettler(
	matches repository.MatchRepository,
	wagers repository.WagerRepository,
	accounts ledger.Accessor,
	log *logrus.Logger,
	audit *logger.AuditLogger,
) *Settler {
	return &Settler{
		matches:  matches,
		wagers:   wagers,
		accounts: accounts,
		logger:   log,
		audit:    audit,
	}
}

// SettleMatch evaluates every pending wager on the match against its final
// round outcomes. A persistence failure for one wager is logged and isolated;
// the remaining wagers still settle.
func (s *Settler) SettleMatch(ctx context.Context, matchID uuid.UUID) (*SettlementSummary, error) {
	if _, loaded := s.inFlight.LoadOrStore(matchID, struct{}{}); loaded {
		return nil, models.ErrSettlementRunning
	}
	defer s.inFlight.Delete(matchID)

	started := time.Now()
	defer func() {
		metrics.SettlementDuration.Observe(time.Since(started).Seconds())
	}()

	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusArchived {
		return nil, models.ErrMatchNotArchived
	}

	outcome := deriveOutcome(match.Rounds)

	pending, err := s.wagers.GetPendingByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	summary := &SettlementSummary{MatchID: matchID}
	for _, wager := range pending {
		if wager.IsSettled() {
			continue
		}
		if err := s.settleWager(ctx, wager, outcome, summary); err != nil {
			summary.Failed++
			s.logger.WithError(err).WithFields(logrus.Fields{
				"match_id": matchID,
				"wager_id": wager.ID,
			}).Error("Failed to settle wager")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"match_id":  matchID,
		"evaluated": summary.Evaluated,
		"won":       summary.Won,
		"lost":      summary.Lost,
		"failed":    summary.Failed,
	}).Info("Settlement pass complete")

	return summary, nil
}

// settleWager evaluates, persists and pays out a single wager.
func (s *Settler) settleWager(ctx context.Context, wager *models.Wager, outcome *matchOutcome, summary *SettlementSummary) error {
	correct, totalLegs := evaluateLegs(&wager.Legs, outcome)
	won := totalLegs > 0 && correct == totalLegs

	wager.CorrectPredictions = correct
	if won {
		wager.Status = models.WagerStatusWon
		wager.Winnings = payout(wager.Stake, wager.TotalOdds)
	} else {
		wager.Status = models.WagerStatusLost
		wager.Winnings = 0
	}

	if err := s.wagers.Settle(ctx, wager); err != nil {
		// A concurrent pass already settled this wager; nothing to redo and
		// nothing to credit again.
		if errors.Is(err, models.ErrWagerSettled) {
			return nil
		}
		return err
	}

	summary.Evaluated++
	s.audit.LogWagerSettlement(wager.ID, string(wager.Status), correct, totalLegs, wager.Winnings)
	metrics.RecordWagerSettled(string(wager.Status))

	if !won {
		summary.Lost++
		return nil
	}
	summary.Won++

	if err := s.accounts.Credit(ctx, wager.BettorID, wager.Winnings); err != nil {
		// The status transition already landed, so a replayed pass skips
		// this wager. The audit entry is what reconciliation works from.
		s.audit.LogUncreditedPayout(wager.ID, wager.BettorID, wager.Winnings)
		return err
	}
	s.audit.LogBalanceChange(wager.BettorID, "credit", wager.Winnings, "wager payout")
	metrics.RecordPayout(wager.Winnings)

	return nil
}

// evaluateLegs counts populated legs and how many of them the derived
// outcome confirms. Wagers with no recognized modern legs fall back to the
// legacy per-player minimum-count format.
func evaluateLegs(legs *models.LegPredictions, outcome *matchOutcome) (correct, totalLegs int) {
	for round, side := range legs.RoundWinners {
		totalLegs++
		if round >= 1 && round <= len(outcome.winners) && outcome.winners[round-1] == side {
			correct++
		}
	}
	if legs.Threshold != "" {
		totalLegs++
		if legs.Threshold.Matches(outcome.totalBonus) {
			correct++
		}
	}
	if legs.TotalScore != nil {
		totalLegs++
		if *legs.TotalScore == outcome.totalScore {
			correct++
		}
	}

	if totalLegs > 0 {
		return correct, totalLegs
	}

	for playerID, minCount := range legs.MinCounts {
		totalLegs++
		if outcome.bonusByPlayer[playerID] >= minCount {
			correct++
		}
	}
	return correct, totalLegs
}

// payout is the stake multiplied by the snapshotted total odds, rounded to
// the nearest whole currency unit and never negative. Decimal arithmetic
// keeps two-decimal odds exact, so a .5 product always rounds up.
func payout(stake int, totalOdds float64) int {
	amount := decimal.NewFromInt(int64(stake)).
		Mul(decimal.NewFromFloat(totalOdds)).
		Round(0).IntPart()
	if amount < 0 {
		return 0
	}
	return int(amount)
}
