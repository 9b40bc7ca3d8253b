// Package config provides configuration management for the League Book engine.
package config

import (
	"os"
	"testing"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	expectedNonNilConfig         = "expected non-nil config"
	leagueBookName               = "league-book"
	developmentEnv               = "development"
	invalidEnv                   = "invalid"
	localhostHost                = "localhost"
	postgresPort                 = 5432
	postgresPrefix               = "postgres://"
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	expandedSecretValue          = "expanded_secret_value"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != leagueBookName {
		t.Errorf("expected app name '%s', got '%s'", leagueBookName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}

	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults apply without a file
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Pricing.HouseEdge != 0.94 {
		t.Errorf("expected default house edge 0.94, got %v", cfg.Pricing.HouseEdge)
	}

	if cfg.Pricing.MinOdds != 1.05 {
		t.Errorf("expected default min odds 1.05, got %v", cfg.Pricing.MinOdds)
	}

	if cfg.Metrics.Port != 9090 {
		t.Errorf("expected default metrics port 9090, got %d", cfg.Metrics.Port)
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("LEAGUE_BOOK_APP_NAME", testAppName)
	defer os.Unsetenv("LEAGUE_BOOK_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = invalidEnv
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidOddsRange tests the min/max odds cross-field check
func TestValidateInvalidOddsRange(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Pricing.MinOdds = 50.0
	cfg.Pricing.MaxOdds = 10.0
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error when min odds exceed max odds")
	}
}

// TestValidateTotalScoreCapExceedsMax tests the total score odds cap check
func TestValidateTotalScoreCapExceedsMax(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Pricing.TotalScoreOddsCap = cfg.Pricing.MaxOdds + 1
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error when total score cap exceeds max odds")
	}
}

// TestValidateAnchorBeforeSeasonZero tests the season date ordering check
func TestValidateAnchorBeforeSeasonZero(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Season.AnchorDate = "2022-01-01"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error when anchor date precedes season zero start")
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	dsn := cfg.GetDatabaseDSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}

	if !containsSubstring(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, dsn)
	}
}

// TestIsDevelopment tests environment check function
func TestIsDevelopment(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: developmentEnv},
	}

	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}

	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
	}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestSeasonTimes tests parsing of the season boundary dates
func TestSeasonTimes(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	zero := cfg.Season.SeasonZeroStartTime()
	anchor := cfg.Season.AnchorTime()

	if zero.IsZero() || anchor.IsZero() {
		t.Fatal("expected non-zero season dates")
	}

	if anchor.Before(zero) {
		t.Errorf("expected anchor %v to be on or after season zero start %v", anchor, zero)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv(testDBPassword, expandedSecretValue)
	defer os.Unsetenv(testDBPassword)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}

// Helper function
func containsSubstring(str, substr string) bool {
	for i := 0; i <= len(str)-len(substr); i++ {
		if str[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
