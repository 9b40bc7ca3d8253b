// Package rating computes authoritative post-match rating, experience and
// currency deltas, and compresses ratings towards the baseline at season
// boundaries.
package rating

import (
	"time"

	"github.com/yourusername/league-book/internal/config"
)

// SeasonClock derives season indices from calendar math. Season 0 runs from
// a fixed start date up to the anchor date; seasons 1 and up are fixed-length
// windows counted from the anchor. Nothing about a season is persisted except
// the rollover watermarks.
type SeasonClock struct {
	zeroStart    time.Time
	anchor       time.Time
	lengthMonths int
}

// NewSeasonClock creates a season clock from configuration
func NewSeasonClock(cfg *config.SeasonConfig) *SeasonClock {
	return &SeasonClock{
		zeroStart:    cfg.SeasonZeroStartTime(),
		anchor:       cfg.AnchorTime(),
		lengthMonths: cfg.LengthMonths,
	}
}

// Index returns the season index containing t. Times before the anchor fall
// into season 0, including times before the league existed.
func (c *SeasonClock) Index(t time.Time) int {
	if t.Before(c.anchor) {
		return 0
	}
	months := monthsBetween(c.anchor, t)
	return 1 + months/c.lengthMonths
}

// Start returns the inclusive start of the given season window.
func (c *SeasonClock) Start(index int) time.Time {
	if index <= 0 {
		return c.zeroStart
	}
	return c.anchor.AddDate(0, (index-1)*c.lengthMonths, 0)
}

// Window returns the half-open interval [start, end) of the given season.
func (c *SeasonClock) Window(index int) (start, end time.Time) {
	start = c.Start(index)
	if index <= 0 {
		return start, c.anchor
	}
	return start, c.anchor.AddDate(0, index*c.lengthMonths, 0)
}

// monthsBetween returns the number of whole calendar months from a to b,
// where a <= b.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	// Back off until the anniversary day has actually passed; AddDate
	// normalization around short months can overshoot by more than one.
	for months > 0 && b.Before(a.AddDate(0, months, 0)) {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
