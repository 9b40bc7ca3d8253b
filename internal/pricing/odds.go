package pricing

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/league-book/internal/config"
	"github.com/yourusername/league-book/internal/models"
)

// The two markets clamp probabilities over deliberately different ranges.
// They are kept as separate constants because unifying them would silently
// change payout economics.
const (
	winnerProbFloor = 0.05
	winnerProbCeil  = 0.95

	thresholdProbFloor = 0.01
	thresholdProbCeil  = 0.99

	// Bonus-event market: the Poisson rate never drops below this.
	lambdaFloor = 0.05

	// Total combined score market.
	totalScoreMin       = 30
	totalScoreMax       = 57
	totalScoreSigma     = 4.6
	totalScoreProbFloor = 0.0005
	baseGoalsPerRound   = 14.0
	closenessGoalSwing  = 4.0
)

// Calculator prices the three wager markets from ratings and historical
// statistics. All outputs are finite, rounded to 2 decimals, and clamped to
// the configured odds range.
type Calculator struct {
	cfg    *config.PricingConfig
	logger *logrus.Logger
}

// NewCalculator creates a new odds calculator
func NewCalculator(cfg *config.PricingConfig, logger *logrus.Logger) *Calculator {
	return &Calculator{cfg: cfg, logger: logger}
}

// Round2 rounds a value to 2 decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// price converts a probability into clamped decimal odds with the house edge
// applied. Non-finite or non-positive probabilities price at the ceiling.
func (c *Calculator) price(p float64) float64 {
	if math.IsNaN(p) || p <= 0 {
		return c.cfg.MaxOdds
	}
	return clamp(c.cfg.MinOdds, c.cfg.MaxOdds, Round2(c.cfg.HouseEdge/p))
}

// ImpliedProbability recovers the probability a stored odds value was priced
// from. Used when ratings are no longer freshly computable for a round.
func (c *Calculator) ImpliedProbability(odds float64) float64 {
	if odds <= 0 {
		return 0.5
	}
	return clamp(winnerProbFloor, winnerProbCeil, c.cfg.HouseEdge/odds)
}

// RoundWinnerOdds prices both sides of a round. Each side's probability is
// independently clamped so neither side is ever near-zero-risk.
func (c *Calculator) RoundWinnerOdds(ratingA, ratingB int) (oddsA, oddsB float64) {
	pA := clamp(winnerProbFloor, winnerProbCeil, WinProbability(ratingA, ratingB))
	pB := clamp(winnerProbFloor, winnerProbCeil, WinProbability(ratingB, ratingA))
	return c.price(pA), c.price(pB)
}

// BonusLambda estimates the Poisson rate of bonus events for a match: the
// per-player historical rate events/max(1, games) averaged across all
// participants, scaled by the round count. A match with no statistics at all
// falls back to the configured default rate.
func (c *Calculator) BonusLambda(stats []models.PlayerStats, rounds int) float64 {
	avgRate := c.cfg.DefaultBonusRate
	if len(stats) > 0 {
		sum := 0.0
		for _, s := range stats {
			sum += float64(s.BonusEvents) / math.Max(1, float64(s.Games()))
		}
		avgRate = sum / float64(len(stats))
	}
	return math.Max(lambdaFloor, avgRate*float64(rounds))
}

// ThresholdOdds prices the bonus-event count buckets for the given rate.
// Bucket probabilities are non-increasing in the threshold, so the returned
// odds are non-decreasing.
func (c *Calculator) ThresholdOdds(lambda float64) map[models.ThresholdBucket]float64 {
	odds := make(map[models.ThresholdBucket]float64, len(models.ThresholdBuckets))
	for _, bucket := range models.ThresholdBuckets {
		var p float64
		switch bucket {
		case models.ThresholdZero:
			p = PoissonCDF(0, lambda)
		case models.ThresholdAtLeast1:
			p = 1 - PoissonCDF(0, lambda)
		case models.ThresholdAtLeast2:
			p = 1 - PoissonCDF(1, lambda)
		case models.ThresholdAtLeast3:
			p = 1 - PoissonCDF(2, lambda)
		}
		odds[bucket] = c.price(clamp(thresholdProbFloor, thresholdProbCeil, p))
	}
	return odds
}

// TotalScoreOdds prices every supported total-score bucket. The discrete
// total is approximated by a Gaussian whose per-round mean rises with how
// close the rounds are expected to be; each integer bucket takes the mass
// between its half-open bounds. Totals are intentionally priced tighter than
// the other markets: odds are capped well below the general ceiling.
func (c *Calculator) TotalScoreOdds(closeness float64, rounds int) map[int]float64 {
	mu := float64(rounds) * (baseGoalsPerRound + closenessGoalSwing*clamp(0, 1, closeness))
	odds := make(map[int]float64, totalScoreMax-totalScoreMin+1)
	for n := totalScoreMin; n <= totalScoreMax; n++ {
		p := NormalCDF(float64(n)+0.5, mu, totalScoreSigma) - NormalCDF(float64(n)-0.5, mu, totalScoreSigma)
		p = math.Max(totalScoreProbFloor, p)
		odds[n] = math.Min(c.cfg.TotalScoreOddsCap, c.price(p))
	}
	return odds
}

// RoundPrice holds both sides' odds for one planned round.
type RoundPrice struct {
	OddsA float64
	OddsB float64
}

// MatchPrices is a full pricing of a match's open markets.
type MatchPrices struct {
	Rounds    []RoundPrice
	Threshold map[models.ThresholdBucket]float64
	Totals    map[int]float64
}

// PriceMatch prices every market of a match from the given ratings and
// historical statistics. Missing ratings fall back to the baseline and
// missing statistics to default rates, so pricing always succeeds.
func (c *Calculator) PriceMatch(match *models.Match, ratings map[uuid.UUID]int, stats map[uuid.UUID]models.PlayerStats) *MatchPrices {
	prices := &MatchPrices{Rounds: make([]RoundPrice, 0, len(match.RoundPlan))}

	for _, round := range match.RoundPlan {
		ratingA := FormAdjustedTeamRating(sideRatings(round.A, ratings), sideStats(round.A, stats))
		ratingB := FormAdjustedTeamRating(sideRatings(round.B, ratings), sideStats(round.B, stats))
		oddsA, oddsB := c.RoundWinnerOdds(ratingA, ratingB)
		prices.Rounds = append(prices.Rounds, RoundPrice{OddsA: oddsA, OddsB: oddsB})
	}

	var allStats []models.PlayerStats
	for _, id := range match.Participants() {
		if s, ok := stats[id]; ok {
			allStats = append(allStats, s)
		}
	}
	prices.Threshold = c.ThresholdOdds(c.BonusLambda(allStats, match.RoundCount))
	prices.Totals = c.TotalScoreOdds(c.closeness(prices.Rounds), match.RoundCount)

	return prices
}

// closeness is the average over rounds of 1-|pA-pB|, with the probabilities
// inferred back out of the already-priced round odds.
func (c *Calculator) closeness(rounds []RoundPrice) float64 {
	if len(rounds) == 0 {
		return 1
	}
	sum := 0.0
	for _, r := range rounds {
		pA := c.ImpliedProbability(r.OddsA)
		pB := c.ImpliedProbability(r.OddsB)
		sum += 1 - math.Abs(pA-pB)
	}
	return sum / float64(len(rounds))
}

func sideRatings(side []uuid.UUID, ratings map[uuid.UUID]int) []int {
	out := make([]int, 0, len(side))
	for _, id := range side {
		if r, ok := ratings[id]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, models.BaselineRating)
	}
	return out
}

func sideStats(side []uuid.UUID, stats map[uuid.UUID]models.PlayerStats) []models.PlayerStats {
	out := make([]models.PlayerStats, 0, len(side))
	for _, id := range side {
		if s, ok := stats[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
