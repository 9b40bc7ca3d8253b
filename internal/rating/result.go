package rating

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/league-book/internal/metrics"
	"github.com/yourusername/league-book/internal/models"
	"github.com/yourusername/league-book/internal/repository"
)

// Rating adjustments per round and for a perfect or winless match.
const (
	baseRatingDelta   = 20
	strengthDivisor   = 25
	strengthAdjustCap = 10

	ultimateWinnerBonus   = 10
	ultimateBystanderDip  = 2
	ultimateLoserPenalty  = 10
	ultimateBystanderLift = 2
)

// Experience gains.
const (
	xpRoundWin       = 20
	xpRoundLoss      = 10
	xpPerGoal        = 1
	xpPerBonusEvent  = 10
	xpShutoutRound   = 50
	xpUltimateWinner = 25
)

// Currency gains.
const (
	currencyPerRound = 5
	currencyRoundWin = 15
	currencyPerGoal  = 1
)

// ComputeMatchResult converts a finished match's round outcomes and the
// participants' pre-match ratings into per-player deltas. The computation is
// additive and order-independent across rounds; it is pure and never fails.
// Players missing from preRatings are treated as baseline rated.
func ComputeMatchResult(rounds []models.RoundOutcome, preRatings map[uuid.UUID]int) models.MatchResult {
	result := make(models.MatchResult)
	roundsPlayed := make(map[uuid.UUID]int)
	roundsWon := make(map[uuid.UUID]int)
	roundsLost := make(map[uuid.UUID]int)

	deltaFor := func(id uuid.UUID) *models.PlayerDelta {
		if d, ok := result[id]; ok {
			return d
		}
		d := &models.PlayerDelta{PlayerID: id}
		result[id] = d
		return d
	}

	for _, round := range rounds {
		winner := round.Winner()
		winners, losers := round.Teams.A, round.Teams.B
		if winner == models.RoundSideB {
			winners, losers = round.Teams.B, round.Teams.A
		}

		// Participation, goals and bonus events accrue regardless of who won.
		for _, side := range []struct {
			players []uuid.UUID
			score   int
		}{{round.Teams.A, round.ScoreA}, {round.Teams.B, round.ScoreB}} {
			for _, id := range side.players {
				d := deltaFor(id)
				roundsPlayed[id]++
				d.Currency += currencyPerRound + currencyPerGoal*side.score
				d.Experience += xpPerGoal * side.score
			}
		}
		for id, events := range round.BonusEvents {
			d := deltaFor(id)
			d.Experience += xpPerBonusEvent * events
			d.BonusEvents += events
		}

		if winner == models.RoundSideTie {
			continue
		}

		gain, loss := roundRatingDeltas(winners, losers, preRatings)
		shutout := round.IsShutout()

		for _, id := range winners {
			d := deltaFor(id)
			roundsWon[id]++
			d.Rating += gain
			d.Wins++
			d.Experience += xpRoundWin
			d.Currency += currencyRoundWin
			if shutout {
				d.Experience += xpShutoutRound
				d.ShutoutsFor++
			}
		}
		for _, id := range losers {
			d := deltaFor(id)
			roundsLost[id]++
			d.Rating -= loss
			d.Losses++
			d.Experience += xpRoundLoss
			if shutout {
				d.ShutoutsAgainst++
			}
		}
	}

	applyUltimateAdjustments(result, rounds, roundsPlayed, roundsWon, roundsLost)

	return result
}

// roundRatingDeltas returns the symmetric base delta adjusted by the rating
// gap between the sides: favourites winning earn less and risk less, upsets
// swing harder in both directions.
func roundRatingDeltas(winners, losers []uuid.UUID, preRatings map[uuid.UUID]int) (gain, loss int) {
	avgWinners := averageRating(winners, preRatings)
	avgLosers := averageRating(losers, preRatings)

	adj := int(math.Floor(math.Abs(avgWinners-avgLosers) / strengthDivisor))
	if adj > strengthAdjustCap {
		adj = strengthAdjustCap
	}

	if avgWinners > avgLosers {
		return baseRatingDelta - adj, baseRatingDelta - adj
	}
	if avgWinners < avgLosers {
		return baseRatingDelta + adj, baseRatingDelta + adj
	}
	return baseRatingDelta, baseRatingDelta
}

// applyUltimateAdjustments grants the flat bonuses for a player winning or
// losing every round of the match, with the small opposite nudge for
// everyone else.
func applyUltimateAdjustments(result models.MatchResult, rounds []models.RoundOutcome, played, won, lost map[uuid.UUID]int) {
	total := len(rounds)
	if total == 0 {
		return
	}

	for id, d := range result {
		if played[id] != total {
			continue
		}
		switch {
		case won[id] == total:
			d.Rating += ultimateWinnerBonus
			d.Experience += xpUltimateWinner
			for other, od := range result {
				if other != id {
					od.Rating -= ultimateBystanderDip
				}
			}
		case lost[id] == total:
			d.Rating -= ultimateLoserPenalty
			for other, od := range result {
				if other != id {
					od.Rating += ultimateBystanderLift
				}
			}
		}
	}
}

func averageRating(players []uuid.UUID, preRatings map[uuid.UUID]int) float64 {
	if len(players) == 0 {
		return models.BaselineRating
	}
	sum := 0
	for _, id := range players {
		if r, ok := preRatings[id]; ok {
			sum += r
			continue
		}
		sum += models.BaselineRating
	}
	return float64(sum) / float64(len(players))
}

// StatsInvalidator drops cached historical aggregates for a player after the
// underlying counters change.
type StatsInvalidator interface {
	InvalidateStats(playerID uuid.UUID)
}

// Recorder loads pre-match ratings, computes match results and persists the
// deltas onto player accounts.
type Recorder struct {
	accounts repository.AccountRepository
	stats    StatsInvalidator
	logger   *logrus.Logger
}

// NewRecorder creates a new match result recorder
func NewRecorder(accounts repository.AccountRepository, stats StatsInvalidator, logger *logrus.Logger) *Recorder {
	return &Recorder{accounts: accounts, stats: stats, logger: logger}
}

// RecordMatchResult computes and persists the deltas for an archived match.
// A persistence failure for one player does not abort the others; the
// accumulated errors are returned after every player has been attempted.
func (r *Recorder) RecordMatchResult(ctx context.Context, match *models.Match) (models.MatchResult, error) {
	if match.Status != models.MatchStatusArchived {
		return nil, models.ErrMatchNotArchived
	}

	preRatings := make(map[uuid.UUID]int)
	for _, id := range match.Participants() {
		account, err := r.accounts.GetByID(ctx, id)
		if err != nil {
			r.logger.WithError(err).WithField("player_id", id).Warn("Pre-match rating unavailable, using baseline")
			preRatings[id] = models.BaselineRating
			continue
		}
		preRatings[id] = account.Rating
	}

	result := ComputeMatchResult(match.Rounds, preRatings)

	var errs []error
	for id, delta := range result {
		if err := r.accounts.ApplyDeltas(ctx, delta); err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"match_id":  match.ID,
				"player_id": id,
			}).Error("Failed to apply match deltas")
			errs = append(errs, err)
			continue
		}
		// Drop the cached aggregates so the next pricing request sees
		// the post-match counters.
		r.stats.InvalidateStats(id)
	}

	metrics.RecordMatchResult()
	return result, errors.Join(errs...)
}
