package models

import (
	"time"

	"github.com/google/uuid"
)

// BaselineRating is the rating assigned to new players and the value the
// season compressor pulls every rating towards.
const BaselineRating = 500

// PlayerAccount represents a player's persistent rating, experience and
// currency state, together with the cumulative counters the pricing layer
// reads as a running aggregate.
type PlayerAccount struct {
	ID              uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	DisplayName     string    `db:"display_name" json:"display_name" validate:"required"`
	Rating          int       `db:"rating" json:"rating"`
	Experience      int       `db:"experience" json:"experience" validate:"gte=0"`
	Currency        int       `db:"currency" json:"currency" validate:"gte=0"`
	Wins            int       `db:"wins" json:"wins" validate:"gte=0"`
	Losses          int       `db:"losses" json:"losses" validate:"gte=0"`
	ShutoutsFor     int       `db:"shutouts_for" json:"shutouts_for" validate:"gte=0"`
	ShutoutsAgainst int       `db:"shutouts_against" json:"shutouts_against" validate:"gte=0"`
	BonusEvents     int       `db:"bonus_events" json:"bonus_events" validate:"gte=0"`
	SeasonIndex     int       `db:"season_index" json:"season_index" validate:"gte=0"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// PlayerStats is the historical aggregate the odds calculator prices the
// bonus-event market from.
type PlayerStats struct {
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	BonusEvents int `json:"bonus_events"`
}

// Games returns the number of recorded round results for the player.
func (s PlayerStats) Games() int {
	return s.Wins + s.Losses
}

// WinRate returns the historical win rate, or 0.5 when no rounds are recorded.
func (s PlayerStats) WinRate() float64 {
	games := s.Games()
	if games == 0 {
		return 0.5
	}
	return float64(s.Wins) / float64(games)
}
