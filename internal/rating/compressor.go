package rating

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/league-book/internal/logger"
	"github.com/yourusername/league-book/internal/models"
	"github.com/yourusername/league-book/internal/repository"
)

// shrinkTier scales one band of a rating's distance from the baseline.
type shrinkTier struct {
	width  int
	factor float64
}

// Tiers stack, so the compression is continuous and strictly shrinking. The
// final tier covers any remaining distance.
var shrinkTiers = []shrinkTier{
	{width: 300, factor: 0.8},
	{width: 200, factor: 0.7},
	{width: 200, factor: 0.6},
}

const shrinkTailFactor = 0.5

// CompressRating pulls a rating towards the baseline with the piecewise
// linear shrink. Direction is preserved, the result is rounded and floored
// at zero. Pure; the per-player season watermark prevents double application.
func CompressRating(rating int) int {
	distance := float64(rating - models.BaselineRating)
	sign := 1.0
	if distance < 0 {
		sign = -1.0
		distance = -distance
	}

	compressed := 0.0
	for _, tier := range shrinkTiers {
		band := math.Min(distance, float64(tier.width))
		compressed += band * tier.factor
		distance -= band
		if distance <= 0 {
			break
		}
	}
	compressed += distance * shrinkTailFactor

	next := models.BaselineRating + int(sign*math.Round(compressed))
	if next < 0 {
		return 0
	}
	return next
}

// Compressor runs the season rollover: every player whose watermark is
// behind the current season gets their rating compressed once per elapsed
// season boundary.
type Compressor struct {
	accounts repository.AccountRepository
	seasons  repository.SeasonRepository
	clock    *SeasonClock
	logger   *logrus.Logger
	audit    *logger.AuditLogger

	mu      sync.Mutex
	running bool
}

// NewCompressor creates a new season rating compressor
func NewCompressor(accounts repository.AccountRepository, seasons repository.SeasonRepository, clock *SeasonClock, log *logrus.Logger, audit *logger.AuditLogger) *Compressor {
	return &Compressor{
		accounts: accounts,
		seasons:  seasons,
		clock:    clock,
		logger:   log,
		audit:    audit,
	}
}

// RunRollover compresses ratings for every season boundary passed since the
// last completed pass. Only one rollover runs per process at a time; the
// global watermark advances per season, after all of that season's players
// succeeded, so a retry after partial failure picks up only the players
// whose own watermark is still behind.
func (c *Compressor) RunRollover(ctx context.Context, now time.Time) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return models.ErrRolloverRunning
	}
	c.running = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	current := c.clock.Index(now)
	last, err := c.seasons.GetLastSeason(ctx)
	if err != nil {
		return err
	}
	if last >= current {
		return nil
	}

	for season := last + 1; season <= current; season++ {
		processed, err := c.compressSeason(ctx, season)
		if err != nil {
			return err
		}
		if err := c.seasons.SetLastSeason(ctx, season); err != nil {
			return err
		}
		c.audit.LogSeasonRollover(season, processed)
	}

	return nil
}

// compressSeason compresses every player still behind the given season. A
// failure for one player does not stop the others, but any failure keeps the
// global watermark from advancing so the season is retried.
func (c *Compressor) compressSeason(ctx context.Context, season int) (int, error) {
	players, err := c.accounts.ListBehindSeason(ctx, season)
	if err != nil {
		return 0, err
	}

	var errs []error
	for _, player := range players {
		compressed := CompressRating(player.Rating)
		if err := c.accounts.SetRating(ctx, player.ID, compressed, player.SeasonIndex, season); err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"player_id": player.ID,
				"season":    season,
			}).Error("Failed to compress rating")
			errs = append(errs, err)
			continue
		}
		c.logger.WithFields(logrus.Fields{
			"player_id":  player.ID,
			"season":     season,
			"rating_was": player.Rating,
			"rating_now": compressed,
		}).Debug("Rating compressed")
	}

	return len(players) - len(errs), errors.Join(errs...)
}
