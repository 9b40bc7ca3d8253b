// Package main provides the entry point for the wagering engine service.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/league-book/internal/config"
	"github.com/yourusername/league-book/internal/database"
	"github.com/yourusername/league-book/internal/health"
	"github.com/yourusername/league-book/internal/logger"
	"github.com/yourusername/league-book/internal/rating"
	"github.com/yourusername/league-book/internal/repository"
	"github.com/yourusername/league-book/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version = "dev"
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
	Use:   "engine",
	Short: "League Book wagering engine",
	Long:  `Runs the wagering odds engine service: season rollover scheduling plus health and metrics endpoints.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	repos = repository.NewRepositories(db)
	return nil
}

func run(ctx context.Context) error {
	defer db.Close()

	appLog.WithFields(logrus.Fields{
		"version":     Version,
		"environment": cfg.App.Environment,
	}).Info("Starting wagering engine")

	clock := rating.NewSeasonClock(&cfg.Season)
	compressor := rating.NewCompressor(repos.Accounts, repos.Seasons, clock, appLog, logger.NewAuditLogger(appLog))

	sched := scheduler.NewScheduler(compressor, appLog)
	if err := sched.ScheduleSeasonRollover(cfg.Season.RolloverCron); err != nil {
		return fmt.Errorf("failed to schedule season rollover: %w", err)
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	var srv *health.Server
	if cfg.Metrics.Enabled {
		srv = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			Logger:      appLog,
			DB:          db,
		})
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
		srv.SetReady(true)
	}

	<-ctx.Done()
	appLog.Info("Shutdown signal received")

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Warn("Scheduler stop error")
	}

	return nil
}
