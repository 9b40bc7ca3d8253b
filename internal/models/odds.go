package models

import "fmt"

// Market keys used inside a MarketOdds snapshot.
const (
	MarketKeyThreshold = "outcomeThreshold"
	MarketKeyTotalSum  = "totalSum"
)

// RoundWinnerKey returns the market key for the winner leg of the given
// 1-based round number.
func RoundWinnerKey(round int) string {
	return fmt.Sprintf("matchLeg%d", round)
}

// ThresholdBucket identifies one bucket of the bonus-event count market.
type ThresholdBucket string

const (
	ThresholdZero     ThresholdBucket = "zero"
	ThresholdAtLeast1 ThresholdBucket = "atLeast1"
	ThresholdAtLeast2 ThresholdBucket = "atLeast2"
	ThresholdAtLeast3 ThresholdBucket = "atLeast3"
)

// ThresholdBuckets lists the buckets in increasing threshold order.
var ThresholdBuckets = []ThresholdBucket{ThresholdZero, ThresholdAtLeast1, ThresholdAtLeast2, ThresholdAtLeast3}

// IsValid reports whether the bucket is one of the supported values.
func (b ThresholdBucket) IsValid() bool {
	switch b {
	case ThresholdZero, ThresholdAtLeast1, ThresholdAtLeast2, ThresholdAtLeast3:
		return true
	}
	return false
}

// Matches reports whether the realized bonus-event total falls in the bucket.
func (b ThresholdBucket) Matches(total int) bool {
	switch b {
	case ThresholdZero:
		return total == 0
	case ThresholdAtLeast1:
		return total >= 1
	case ThresholdAtLeast2:
		return total >= 2
	case ThresholdAtLeast3:
		return total >= 3
	}
	return false
}

// MarketOdds maps market keys to decimal multipliers. A snapshot is embedded
// into a wager at placement time and never recomputed afterwards.
type MarketOdds map[string]float64

// Product returns the product of every stored leg multiplier, unrounded.
func (o MarketOdds) Product() float64 {
	total := 1.0
	for _, odds := range o {
		total *= odds
	}
	return total
}
