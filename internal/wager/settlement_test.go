package wager

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/league-book/internal/logger"
	"github.com/yourusername/league-book/internal/models"
)

func archivedMatch(p1, p2 uuid.UUID, rounds []models.RoundOutcome) *models.Match {
	teams := models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}}
	plan := make([]models.RoundTeams, len(rounds))
	for i := range plan {
		plan[i] = teams
	}
	return &models.Match{
		ID:         uuid.New(),
		Status:     models.MatchStatusArchived,
		RoundCount: len(rounds),
		RoundPlan:  plan,
		Rounds:     rounds,
	}
}

func newTestSettler(matches *MockMatchRepository, wagers *MockWagerRepository, accounts *MockLedger) *Settler {
	return NewSettler(matches, wagers, accounts, testLogger(), testAudit())
}

func pendingWager(matchID uuid.UUID, legs models.LegPredictions, stake int, totalOdds float64) *models.Wager {
	return &models.Wager{
		ID:        uuid.New(),
		BettorID:  uuid.New(),
		MatchID:   matchID,
		Legs:      legs,
		Stake:     stake,
		Status:    models.WagerStatusPending,
		TotalOdds: totalOdds,
		LegCount:  legs.PopulatedLegs(),
	}
}

func TestSettleMatchAllLegsCorrect(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	match := archivedMatch(p1, p2, []models.RoundOutcome{
		{Teams: models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}}, ScoreA: 10, ScoreB: 7},
		{Teams: models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}}, ScoreA: 6, ScoreB: 10},
	})

	wager := pendingWager(match.ID, models.LegPredictions{
		RoundWinners: map[int]models.RoundSide{1: models.RoundSideA, 2: models.RoundSideB},
	}, 100, 3.0)

	matches := new(MockMatchRepository)
	wagers := new(MockWagerRepository)
	accounts := new(MockLedger)
	settler := newTestSettler(matches, wagers, accounts)

	matches.On("GetByID", mock.Anything, match.ID).Return(match, nil)
	wagers.On("GetPendingByMatchID", mock.Anything, match.ID).Return([]*models.Wager{wager}, nil)
	wagers.On("Settle", mock.Anything, wager).Return(nil)
	accounts.On("Credit", mock.Anything, wager.BettorID, 300).Return(nil)

	summary, err := settler.SettleMatch(context.Background(), match.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Won)
	assert.Equal(t, 0, summary.Lost)
	assert.Equal(t, models.WagerStatusWon, wager.Status)
	assert.Equal(t, 2, wager.CorrectPredictions)
	assert.Equal(t, 300, wager.Winnings)
	accounts.AssertCalled(t, "Credit", mock.Anything, wager.BettorID, 300)
}

func TestSettleMatchOneLegWrongLosesAll(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	match := archivedMatch(p1, p2, []models.RoundOutcome{
		{Teams: models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}}, ScoreA: 10, ScoreB: 7},
		{Teams: models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}}, ScoreA: 10, ScoreB: 4},
	})

	// Leg 1 correct, leg 2 wrong: the whole wager loses.
	wager := pendingWager(match.ID, models.LegPredictions{
		RoundWinners: map[int]models.RoundSide{1: models.RoundSideA, 2: models.RoundSideB},
	}, 100, 3.5)

	matches := new(MockMatchRepository)
	wagers := new(MockWagerRepository)
	accounts := new(MockLedger)
	settler := newTestSettler(matches, wagers, accounts)

	matches.On("GetByID", mock.Anything, match.ID).Return(match, nil)
	wagers.On("GetPendingByMatchID", mock.Anything, match.ID).Return([]*models.Wager{wager}, nil)
	wagers.On("Settle", mock.Anything, wager).Return(nil)

	summary, err := settler.SettleMatch(context.Background(), match.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Lost)
	assert.Equal(t, models.WagerStatusLost, wager.Status)
	assert.Equal(t, 1, wager.CorrectPredictions)
	assert.Equal(t, 0, wager.Winnings)
	accounts.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettleMatchThresholdAndTotalLegs(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	match := archivedMatch(p1, p2, []models.RoundOutcome{
		{
			Teams:       models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}},
			ScoreA:      10,
			ScoreB:      8,
			BonusEvents: map[uuid.UUID]int{p1: 2},
		},
		{
			Teams:  models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}},
			ScoreA: 9,
			ScoreB: 10,
		},
	})

	// Bonus total 2, score total 37: both legs hit.
	total := 37
	wager := pendingWager(match.ID, models.LegPredictions{
		Threshold:  models.ThresholdAtLeast2,
		TotalScore: &total,
	}, 50, 8.4)

	matches := new(MockMatchRepository)
	wagers := new(MockWagerRepository)
	accounts := new(MockLedger)
	settler := newTestSettler(matches, wagers, accounts)

	matches.On("GetByID", mock.Anything, match.ID).Return(match, nil)
	wagers.On("GetPendingByMatchID", mock.Anything, match.ID).Return([]*models.Wager{wager}, nil)
	wagers.On("Settle", mock.Anything, wager).Return(nil)
	accounts.On("Credit", mock.Anything, wager.BettorID, 420).Return(nil)

	summary, err := settler.SettleMatch(context.Background(), match.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Won)
	assert.Equal(t, 2, wager.CorrectPredictions)
	assert.Equal(t, 420, wager.Winnings)
}

func TestSettleMatchLegacyMinCounts(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	match := archivedMatch(p1, p2, []models.RoundOutcome{
		{
			Teams:       models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}},
			ScoreA:      10,
			ScoreB:      5,
			BonusEvents: map[uuid.UUID]int{p1: 3, p2: 1},
		},
	})

	wager := pendingWager(match.ID, models.LegPredictions{
		MinCounts: map[uuid.UUID]int{p1: 2, p2: 1},
	}, 10, 5.0)

	matches := new(MockMatchRepository)
	wagers := new(MockWagerRepository)
	accounts := new(MockLedger)
	settler := newTestSettler(matches, wagers, accounts)

	matches.On("GetByID", mock.Anything, match.ID).Return(match, nil)
	wagers.On("GetPendingByMatchID", mock.Anything, match.ID).Return([]*models.Wager{wager}, nil)
	wagers.On("Settle", mock.Anything, wager).Return(nil)
	accounts.On("Credit", mock.Anything, wager.BettorID, 50).Return(nil)

	summary, err := settler.SettleMatch(context.Background(), match.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Won)
	assert.Equal(t, 2, wager.CorrectPredictions)
}

func TestSettleMatchNoLegsLoses(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	match := archivedMatch(p1, p2, []models.RoundOutcome{
		{Teams: models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}}, ScoreA: 10, ScoreB: 5},
	})

	wager := pendingWager(match.ID, models.LegPredictions{}, 10, 1.0)

	matches := new(MockMatchRepository)
	wagers := new(MockWagerRepository)
	accounts := new(MockLedger)
	settler := newTestSettler(matches, wagers, accounts)

	matches.On("GetByID", mock.Anything, match.ID).Return(match, nil)
	wagers.On("GetPendingByMatchID", mock.Anything, match.ID).Return([]*models.Wager{wager}, nil)
	wagers.On("Settle", mock.Anything, wager).Return(nil)

	summary, err := settler.SettleMatch(context.Background(), match.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Lost)
	assert.Equal(t, models.WagerStatusLost, wager.Status)
	accounts.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettleMatchNotArchived(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	match := archivedMatch(p1, p2, nil)
	match.Status = models.MatchStatusLive

	matches := new(MockMatchRepository)
	wagers := new(MockWagerRepository)
	accounts := new(MockLedger)
	settler := newTestSettler(matches, wagers, accounts)

	matches.On("GetByID", mock.Anything, match.ID).Return(match, nil)

	_, err := settler.SettleMatch(context.Background(), match.ID)
	assert.ErrorIs(t, err, models.ErrMatchNotArchived)
	wagers.AssertNotCalled(t, "GetPendingByMatchID", mock.Anything, mock.Anything)
}

func TestSettleMatchAlreadySettledWagerSkipped(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	match := archivedMatch(p1, p2, []models.RoundOutcome{
		{Teams: models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}}, ScoreA: 10, ScoreB: 5},
	})

	wager := pendingWager(match.ID, models.LegPredictions{
		RoundWinners: map[int]models.RoundSide{1: models.RoundSideA},
	}, 100, 1.88)

	matches := new(MockMatchRepository)
	wagers := new(MockWagerRepository)
	accounts := new(MockLedger)
	settler := newTestSettler(matches, wagers, accounts)

	matches.On("GetByID", mock.Anything, match.ID).Return(match, nil)
	wagers.On("GetPendingByMatchID", mock.Anything, match.ID).Return([]*models.Wager{wager}, nil)
	// A concurrent pass won the race: the guarded update reports it.
	wagers.On("Settle", mock.Anything, wager).Return(models.ErrWagerSettled)

	summary, err := settler.SettleMatch(context.Background(), match.ID)
	require.NoError(t, err)

	// No duplicate payout, no failure recorded.
	assert.Equal(t, 0, summary.Won)
	assert.Equal(t, 0, summary.Failed)
	accounts.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettleMatchPartialFailureIsolated(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	match := archivedMatch(p1, p2, []models.RoundOutcome{
		{Teams: models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}}, ScoreA: 10, ScoreB: 5},
	})

	failing := pendingWager(match.ID, models.LegPredictions{
		RoundWinners: map[int]models.RoundSide{1: models.RoundSideA},
	}, 100, 1.88)
	healthy := pendingWager(match.ID, models.LegPredictions{
		RoundWinners: map[int]models.RoundSide{1: models.RoundSideB},
	}, 100, 1.88)

	matches := new(MockMatchRepository)
	wagers := new(MockWagerRepository)
	accounts := new(MockLedger)
	settler := newTestSettler(matches, wagers, accounts)

	matches.On("GetByID", mock.Anything, match.ID).Return(match, nil)
	wagers.On("GetPendingByMatchID", mock.Anything, match.ID).Return([]*models.Wager{failing, healthy}, nil)
	wagers.On("Settle", mock.Anything, failing).Return(assert.AnError)
	wagers.On("Settle", mock.Anything, healthy).Return(nil)

	summary, err := settler.SettleMatch(context.Background(), match.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Lost)
}

func TestSettleMatchUncreditedPayoutAudited(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	match := archivedMatch(p1, p2, []models.RoundOutcome{
		{Teams: models.RoundTeams{A: []uuid.UUID{p1}, B: []uuid.UUID{p2}}, ScoreA: 10, ScoreB: 5},
	})
	winning := pendingWager(match.ID, models.LegPredictions{
		RoundWinners: map[int]models.RoundSide{1: models.RoundSideA},
	}, 100, 1.88)

	matches := new(MockMatchRepository)
	wagers := new(MockWagerRepository)
	accounts := new(MockLedger)
	auditBase, hook := logrustest.NewNullLogger()
	settler := NewSettler(matches, wagers, accounts, testLogger(), logger.NewAuditLogger(auditBase))

	matches.On("GetByID", mock.Anything, match.ID).Return(match, nil)
	wagers.On("GetPendingByMatchID", mock.Anything, match.ID).Return([]*models.Wager{winning}, nil)
	wagers.On("Settle", mock.Anything, winning).Return(nil)
	accounts.On("Credit", mock.Anything, winning.BettorID, 188).Return(assert.AnError)

	summary, err := settler.SettleMatch(context.Background(), match.ID)
	require.NoError(t, err)

	// The status transition landed, so the wager counts as settled and won
	// even though the payout never reached the balance.
	assert.Equal(t, 1, summary.Won)
	assert.Equal(t, 1, summary.Failed)

	var flagged bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Data["wager_id"] == winning.ID {
			flagged = true
		}
	}
	assert.True(t, flagged, "expected an audit entry for the uncredited payout")
}

func TestPayoutRounding(t *testing.T) {
	if got := payout(100, 3.0); got != 300 {
		t.Fatalf("expected 300, got %d", got)
	}
	if got := payout(100, 1.88); got != 188 {
		t.Fatalf("expected 188, got %d", got)
	}
	if got := payout(3, 1.05); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	// 10 x 1.15 is exactly 11.5 in decimal and rounds up; naive float64
	// arithmetic lands just under the half and would round down.
	if got := payout(10, 1.15); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}

func TestEvaluateLegsModernSupersedesLegacy(t *testing.T) {
	p1 := uuid.New()
	outcome := &matchOutcome{
		winners:       []models.RoundSide{models.RoundSideA},
		totalBonus:    1,
		bonusByPlayer: map[uuid.UUID]int{p1: 1},
	}

	// A modern leg is present, so the legacy entries are ignored entirely.
	legs := &models.LegPredictions{
		RoundWinners: map[int]models.RoundSide{1: models.RoundSideA},
		MinCounts:    map[uuid.UUID]int{p1: 5},
	}

	correct, total := evaluateLegs(legs, outcome)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, correct)
}
