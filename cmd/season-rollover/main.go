// Package main provides a one-shot CLI that forces a season rollover pass.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/league-book/internal/config"
	"github.com/yourusername/league-book/internal/database"
	"github.com/yourusername/league-book/internal/logger"
	"github.com/yourusername/league-book/internal/metrics"
	"github.com/yourusername/league-book/internal/rating"
	"github.com/yourusername/league-book/internal/repository"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "season-rollover",
	Short: "Run a season rating compression pass",
	Long:  `Compresses every stale rating towards the baseline for each season boundary passed since the last completed rollover. Safe to re-run; already processed seasons are skipped.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		appLog = logger.NewLogger(cfg.App.LogLevel)

		db, err = database.Initialize(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		repos = repository.NewRepositories(db)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer db.Close()

		clock := rating.NewSeasonClock(&cfg.Season)
		compressor := rating.NewCompressor(repos.Accounts, repos.Seasons, clock, appLog, logger.NewAuditLogger(appLog))

		started := time.Now()
		if err := compressor.RunRollover(cmd.Context(), time.Now().UTC()); err != nil {
			return fmt.Errorf("rollover failed: %w", err)
		}
		metrics.RecordSeasonRollover()

		appLog.WithField("duration", time.Since(started).String()).Info("Rollover pass finished")
		return nil
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
