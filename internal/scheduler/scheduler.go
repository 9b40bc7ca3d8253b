// Package scheduler runs the engine's periodic jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/league-book/internal/metrics"
	"github.com/yourusername/league-book/internal/models"
	"github.com/yourusername/league-book/internal/rating"
)

// Scheduler manages the season rollover job. The compressor is re-entrant and
// watermark-guarded, so the schedule only needs to fire often enough that a
// boundary is picked up promptly; a run with no elapsed boundary does nothing.
type Scheduler struct {
	cron       *cron.Cron
	compressor *rating.Compressor
	logger     *logrus.Logger
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(compressor *rating.Compressor, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		compressor: compressor,
		logger:     logger,
		jobIDs:     make([]cron.EntryID, 0),
	}
}

// ScheduleSeasonRollover schedules the season compression pass
func (s *Scheduler) ScheduleSeasonRollover(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		err := s.compressor.RunRollover(ctx, time.Now().UTC())
		if errors.Is(err, models.ErrRolloverRunning) {
			s.logger.Warn("Skipping scheduled rollover, previous pass still running")
			return
		}
		if err != nil {
			s.logger.WithError(err).Error("Scheduled season rollover failed")
			return
		}
		metrics.RecordSeasonRollover()
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled season rollover job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}
