// Package config provides configuration management for the League Book engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Pricing  PricingConfig  `mapstructure:"pricing" validate:"required"`
	Wagering WageringConfig `mapstructure:"wagering" validate:"required"`
	Season   SeasonConfig   `mapstructure:"season" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// PricingConfig represents odds calculator configuration
type PricingConfig struct {
	HouseEdge            float64 `mapstructure:"house_edge" validate:"required,gt=0,lte=1"`
	MinOdds              float64 `mapstructure:"min_odds" validate:"required,gte=1"`
	MaxOdds              float64 `mapstructure:"max_odds" validate:"required,gt=1"`
	TotalScoreOddsCap    float64 `mapstructure:"total_score_odds_cap" validate:"required,gt=1"`
	DefaultBonusRate     float64 `mapstructure:"default_bonus_rate" validate:"required,gt=0"`
	StatsCacheTTLSeconds int     `mapstructure:"stats_cache_ttl_seconds" validate:"required,gt=0"`
}

// WageringConfig represents wager placement configuration
type WageringConfig struct {
	PlacementsPerMinute int `mapstructure:"placements_per_minute" validate:"required,gt=0"`
	PlacementBurst      int `mapstructure:"placement_burst" validate:"required,gt=0"`
}

// SeasonConfig represents season boundary configuration
type SeasonConfig struct {
	SeasonZeroStart string `mapstructure:"season_zero_start" validate:"required,datetime=2006-01-02"`
	AnchorDate      string `mapstructure:"anchor_date" validate:"required,datetime=2006-01-02"`
	LengthMonths    int    `mapstructure:"length_months" validate:"required,gt=0"`
	RolloverCron    string `mapstructure:"rollover_cron" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SeasonZeroStartTime returns the parsed start date of season 0.
func (s *SeasonConfig) SeasonZeroStartTime() time.Time {
	t, _ := time.Parse("2006-01-02", s.SeasonZeroStart)
	return t
}

// AnchorTime returns the parsed anchor date from which seasons >= 1 are counted.
func (s *SeasonConfig) AnchorTime() time.Time {
	t, _ := time.Parse("2006-01-02", s.AnchorDate)
	return t
}
