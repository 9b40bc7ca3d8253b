package wager

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/league-book/internal/config"
	"github.com/yourusername/league-book/internal/logger"
	"github.com/yourusername/league-book/internal/models"
	"github.com/yourusername/league-book/internal/pricing"
)

// MockMatchRepository is a mock implementation of MatchRepository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Create(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMatchRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.MatchStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockMatchRepository) Archive(ctx context.Context, id uuid.UUID, rounds []models.RoundOutcome) error {
	args := m.Called(ctx, id, rounds)
	return args.Error(0)
}

// MockWagerRepository is a mock implementation of WagerRepository
type MockWagerRepository struct {
	mock.Mock
}

func (m *MockWagerRepository) Create(ctx context.Context, wager *models.Wager) error {
	args := m.Called(ctx, wager)
	return args.Error(0)
}

func (m *MockWagerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Wager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wager), args.Error(1)
}

func (m *MockWagerRepository) GetByBettorID(ctx context.Context, bettorID uuid.UUID) ([]*models.Wager, error) {
	args := m.Called(ctx, bettorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wager), args.Error(1)
}

func (m *MockWagerRepository) GetPendingByMatchID(ctx context.Context, matchID uuid.UUID) ([]*models.Wager, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wager), args.Error(1)
}

func (m *MockWagerRepository) Settle(ctx context.Context, wager *models.Wager) error {
	args := m.Called(ctx, wager)
	return args.Error(0)
}

// MockLedger is a mock implementation of ledger.Accessor
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) GetBalance(ctx context.Context, playerID uuid.UUID) (int, error) {
	args := m.Called(ctx, playerID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedger) Credit(ctx context.Context, playerID uuid.UUID, amount int) error {
	args := m.Called(ctx, playerID, amount)
	return args.Error(0)
}

func (m *MockLedger) Debit(ctx context.Context, playerID uuid.UUID, amount int) error {
	args := m.Called(ctx, playerID, amount)
	return args.Error(0)
}

func (m *MockLedger) GetRating(ctx context.Context, playerID uuid.UUID) (int, error) {
	args := m.Called(ctx, playerID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedger) SetRating(ctx context.Context, playerID uuid.UUID, rating int) error {
	args := m.Called(ctx, playerID, rating)
	return args.Error(0)
}

func (m *MockLedger) GetHistoricalStats(ctx context.Context, playerID uuid.UUID) (models.PlayerStats, error) {
	args := m.Called(ctx, playerID)
	return args.Get(0).(models.PlayerStats), args.Error(1)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	return log
}

func testAudit() *logger.AuditLogger {
	return logger.NewAuditLogger(testLogger())
}

func testCalculator() *pricing.Calculator {
	return pricing.NewCalculator(&config.PricingConfig{
		HouseEdge:         0.94,
		MinOdds:           1.05,
		MaxOdds:           100.0,
		TotalScoreOddsCap: 20.0,
		DefaultBonusRate:  0.2,
	}, testLogger())
}

func testWageringConfig() *config.WageringConfig {
	return &config.WageringConfig{
		PlacementsPerMinute: 600,
		PlacementBurst:      100,
	}
}
