// Package pricing converts player ratings and historical statistics into
// priced betting markets.
package pricing

import (
	"math"

	"github.com/yourusername/league-book/internal/models"
)

const (
	// ratingScale is the logistic divisor of the Elo curve.
	ratingScale = 400.0

	// Form adjustment: win rate over a capped sample nudges a team rating by
	// at most formMaxInfluence of the full formSwing.
	formSwing        = 160.0
	formMaxInfluence = 0.35
	formSampleCap    = 10

	winRateFloor = 0.05
	winRateCeil  = 0.95
)

// WinProbability returns the probability that a team rated a beats a team
// rated b, on the standard logistic Elo curve. Total over (0,1); never fails.
func WinProbability(a, b int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(b-a)/ratingScale))
}

// TeamRating returns the arithmetic mean of the member ratings, rounded to
// the nearest integer. An empty roster prices as a baseline-rated team
// rather than failing.
func TeamRating(ratings []int) int {
	if len(ratings) == 0 {
		return models.BaselineRating
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return int(math.Round(float64(sum) / float64(len(ratings))))
}

// FormAdjustedTeamRating nudges the mean team rating by recent form. The win
// rate is clamped before use so a short perfect streak never produces
// degenerate certainty, and the sample weight saturates at formSampleCap
// recorded rounds.
func FormAdjustedTeamRating(ratings []int, stats []models.PlayerStats) int {
	base := TeamRating(ratings)
	if len(stats) == 0 {
		return base
	}

	wins, games := 0, 0
	for _, s := range stats {
		wins += s.Wins
		games += s.Games()
	}
	if games == 0 {
		return base
	}

	winRate := clamp(winRateFloor, winRateCeil, float64(wins)/float64(games))
	weight := math.Min(1, float64(games)/float64(formSampleCap))
	shift := (winRate - 0.5) * formSwing * weight * formMaxInfluence
	return base + int(math.Round(shift))
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
