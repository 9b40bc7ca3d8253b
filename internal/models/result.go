package models

import "github.com/google/uuid"

// PlayerDelta is the authoritative per-player outcome of a finished match:
// the rating adjustment plus the additive experience, currency and counter
// gains. Only Rating may be negative.
type PlayerDelta struct {
	PlayerID        uuid.UUID `json:"player_id"`
	Rating          int       `json:"rating"`
	Experience      int       `json:"experience"`
	Currency        int       `json:"currency"`
	Wins            int       `json:"wins"`
	Losses          int       `json:"losses"`
	ShutoutsFor     int       `json:"shutouts_for"`
	ShutoutsAgainst int       `json:"shutouts_against"`
	BonusEvents     int       `json:"bonus_events"`
}

// MatchResult maps every participant to their computed deltas.
type MatchResult map[uuid.UUID]*PlayerDelta
