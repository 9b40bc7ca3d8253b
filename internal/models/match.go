package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus represents the lifecycle state of a match
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusArchived  MatchStatus = "archived"
)

// RoundSide identifies one side of a round
type RoundSide string

const (
	RoundSideA   RoundSide = "a"
	RoundSideB   RoundSide = "b"
	RoundSideTie RoundSide = "tie"
)

// MaxRoundScore is the score a side plays to in a single round.
const MaxRoundScore = 10

// RoundTeams describes the planned side compositions for one round. Sides
// hold one or two players each; compositions may differ between rounds.
type RoundTeams struct {
	A []uuid.UUID `json:"a"`
	B []uuid.UUID `json:"b"`
}

// GoldenEvent marks the single golden bonus event of a round, when one occurred.
type GoldenEvent struct {
	PlayerID uuid.UUID `json:"player_id"`
	Side     RoundSide `json:"side"`
}

// RoundOutcome is the immutable record of one played round: the two side
// rosters, their scores, and the per-player bonus-event counts.
type RoundOutcome struct {
	Teams       RoundTeams        `json:"teams"`
	ScoreA      int               `json:"score_a" validate:"gte=0,lte=10"`
	ScoreB      int               `json:"score_b" validate:"gte=0,lte=10"`
	BonusEvents map[uuid.UUID]int `json:"bonus_events,omitempty"`
	Golden      *GoldenEvent      `json:"golden,omitempty"`
}

// Winner returns which side won the round, or RoundSideTie on equal scores.
func (r *RoundOutcome) Winner() RoundSide {
	switch {
	case r.ScoreA > r.ScoreB:
		return RoundSideA
	case r.ScoreB > r.ScoreA:
		return RoundSideB
	default:
		return RoundSideTie
	}
}

// TotalScore returns the combined score of both sides.
func (r *RoundOutcome) TotalScore() int {
	return r.ScoreA + r.ScoreB
}

// TotalBonusEvents returns the number of bonus events across all players in the round.
func (r *RoundOutcome) TotalBonusEvents() int {
	total := 0
	for _, n := range r.BonusEvents {
		total += n
	}
	return total
}

// IsShutout reports whether the round ended 10-0 either way.
func (r *RoundOutcome) IsShutout() bool {
	winner, loser := r.ScoreA, r.ScoreB
	if loser > winner {
		winner, loser = loser, winner
	}
	return winner == MaxRoundScore && loser == 0
}

// Match represents a league match: a fixed plan of rounds between (possibly
// rotating) sides, filled in with outcomes as rounds are played.
type Match struct {
	ID         uuid.UUID      `db:"id" json:"id" validate:"required,uuid4"`
	Status     MatchStatus    `db:"status" json:"status" validate:"required,oneof=scheduled live archived"`
	RoundCount int            `db:"round_count" json:"round_count" validate:"required,gt=0"`
	RoundPlan  []RoundTeams   `json:"round_plan"`
	Rounds     []RoundOutcome `json:"rounds"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	ArchivedAt *time.Time     `db:"archived_at" json:"archived_at"`
}

// IsOpen reports whether the match currently accepts wagers.
func (m *Match) IsOpen() bool {
	return m.Status == MatchStatusLive
}

// Participants returns the deduplicated set of players across all planned rounds.
func (m *Match) Participants() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var players []uuid.UUID
	for _, round := range m.RoundPlan {
		for _, side := range [][]uuid.UUID{round.A, round.B} {
			for _, id := range side {
				if !seen[id] {
					seen[id] = true
					players = append(players, id)
				}
			}
		}
	}
	return players
}

// HasPlayer reports whether the player appears in any planned round.
func (m *Match) HasPlayer(id uuid.UUID) bool {
	for _, round := range m.RoundPlan {
		for _, side := range [][]uuid.UUID{round.A, round.B} {
			for _, p := range side {
				if p == id {
					return true
				}
			}
		}
	}
	return false
}
