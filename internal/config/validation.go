// Package config provides configuration management for the League Book engine.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails for empty tags, which are compile-time constants here.
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField enforces relations that single-field tags cannot express
func validateCrossField(cfg *Config) error {
	if cfg.Pricing.MinOdds >= cfg.Pricing.MaxOdds {
		return fmt.Errorf("pricing.min_odds (%.2f) must be below pricing.max_odds (%.2f)", cfg.Pricing.MinOdds, cfg.Pricing.MaxOdds)
	}
	if cfg.Pricing.TotalScoreOddsCap > cfg.Pricing.MaxOdds {
		return fmt.Errorf("pricing.total_score_odds_cap (%.2f) must not exceed pricing.max_odds (%.2f)", cfg.Pricing.TotalScoreOddsCap, cfg.Pricing.MaxOdds)
	}
	if cfg.Season.AnchorTime().Before(cfg.Season.SeasonZeroStartTime()) {
		return fmt.Errorf("season.anchor_date (%s) must not precede season.season_zero_start (%s)", cfg.Season.AnchorDate, cfg.Season.SeasonZeroStart)
	}
	return nil
}

// formatValidationErrors produces a readable message listing every failed field
func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
