// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for every money movement and
// rating rewrite the engine performs.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogWagerPlacement logs a wager placement with its immutable odds snapshot.
func (al *AuditLogger) LogWagerPlacement(wagerID, bettorID, matchID uuid.UUID, stake, legCount int, totalOdds float64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"wager_id":   wagerID,
		"bettor_id":  bettorID,
		"match_id":   matchID,
		"stake":      stake,
		"leg_count":  legCount,
		"total_odds": totalOdds,
		"timestamp":  timestamp.Unix(),
	}).Info("Wager placement recorded")
}

// LogWagerSettlement logs a wager's single pending-to-settled transition.
func (al *AuditLogger) LogWagerSettlement(wagerID uuid.UUID, status string, correct, totalLegs, winnings int) {
	al.WithFields(logrus.Fields{
		"wager_id":   wagerID,
		"status":     status,
		"correct":    correct,
		"total_legs": totalLegs,
		"winnings":   winnings,
	}).Info("Wager settled")
}

// LogUncreditedPayout flags a wager that settled as won but whose payout
// credit failed. The settled status blocks a replay from paying it, so
// reconciliation works from this entry.
func (al *AuditLogger) LogUncreditedPayout(wagerID, bettorID uuid.UUID, amount int) {
	al.WithFields(logrus.Fields{
		"wager_id":  wagerID,
		"bettor_id": bettorID,
		"amount":    amount,
	}).Error("Wager settled as won but payout credit failed")
}

// LogBalanceChange logs a credit or debit against a player balance.
func (al *AuditLogger) LogBalanceChange(playerID uuid.UUID, direction string, amount int, reason string) {
	al.WithFields(logrus.Fields{
		"player_id": playerID,
		"direction": direction,
		"amount":    amount,
		"reason":    reason,
	}).Info("Balance change recorded")
}

// LogSeasonRollover logs a completed season compression pass.
func (al *AuditLogger) LogSeasonRollover(season int, playersProcessed int) {
	al.WithFields(logrus.Fields{
		"season":            season,
		"players_processed": playersProcessed,
	}).Info("Season rollover recorded")
}
