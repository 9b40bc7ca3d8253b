package models

import (
	"time"

	"github.com/google/uuid"
)

// WagerStatus represents the lifecycle state of a wager
type WagerStatus string

const (
	WagerStatusPending WagerStatus = "pending"
	WagerStatusWon     WagerStatus = "won"
	WagerStatusLost    WagerStatus = "lost"
)

// LegPredictions holds the optional leg selections of a wager. Any subset of
// legs may be populated; MinCounts is the legacy per-player minimum
// bonus-event format still honoured at settlement.
type LegPredictions struct {
	RoundWinners map[int]RoundSide `json:"round_winners,omitempty"`
	Threshold    ThresholdBucket   `json:"threshold,omitempty"`
	TotalScore   *int              `json:"total_score,omitempty"`
	MinCounts    map[uuid.UUID]int `json:"min_counts,omitempty"`
}

// PopulatedLegs returns the number of non-empty modern legs. Legacy MinCounts
// entries are deliberately excluded; they only count at settlement when no
// modern leg is present.
func (l *LegPredictions) PopulatedLegs() int {
	count := len(l.RoundWinners)
	if l.Threshold != "" {
		count++
	}
	if l.TotalScore != nil {
		count++
	}
	return count
}

// Wager represents a multi-leg wager on a match. It is created once, settled
// exactly once, and never deleted.
type Wager struct {
	ID                 uuid.UUID      `db:"id" json:"id" validate:"required,uuid4"`
	BettorID           uuid.UUID      `db:"bettor_id" json:"bettor_id" validate:"required,uuid4"`
	BettorName         string         `db:"bettor_name" json:"bettor_name"`
	MatchID            uuid.UUID      `db:"match_id" json:"match_id" validate:"required,uuid4"`
	Legs               LegPredictions `json:"legs"`
	Stake              int            `db:"stake" json:"stake" validate:"required,gt=0"`
	Status             WagerStatus    `db:"status" json:"status" validate:"required,oneof=pending won lost"`
	Odds               MarketOdds     `json:"odds"`
	TotalOdds          float64        `db:"total_odds" json:"total_odds" validate:"gte=1.05"`
	LegCount           int            `db:"leg_count" json:"leg_count"`
	CorrectPredictions int            `db:"correct_predictions" json:"correct_predictions"`
	Winnings           int            `db:"winnings" json:"winnings" validate:"gte=0"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	SettledAt          *time.Time     `db:"settled_at" json:"settled_at"`
}

// IsSettled reports whether the wager has left the pending state.
func (w *Wager) IsSettled() bool {
	return w.Status == WagerStatusWon || w.Status == WagerStatusLost
}
