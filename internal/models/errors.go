package models

import "errors"

// Custom errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidStake        = errors.New("stake must be a positive amount")
	ErrInsufficientBalance = errors.New("stake exceeds current balance")
	ErrMatchNotOpen        = errors.New("match is not open for wagers")
	ErrUnknownRound        = errors.New("leg references a round outside the match")
	ErrLegCountMismatch    = errors.New("populated legs do not match declared leg count")
	ErrInvalidLeg          = errors.New("leg prediction is not recognized")
	ErrMatchNotArchived    = errors.New("match has not been archived yet")
	ErrSettlementRunning   = errors.New("settlement already in progress for match")
	ErrWagerSettled        = errors.New("wager has already been settled")
	ErrRolloverRunning     = errors.New("season rollover already in progress")
	ErrPlacementThrottled  = errors.New("too many placement attempts, slow down")
)
