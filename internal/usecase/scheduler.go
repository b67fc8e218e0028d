package usecase

import (
	"context"
	"log/slog"
	"time"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/ports"
)

// Scheduler wires the cron driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	lookback int
	logger   *slog.Logger
}

// NewScheduler returns a helper that runs the pipeline on a recurring
// schedule. lookbackDays controls how far back each run searches;
// values below 1 fall back to one week.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, lookbackDays int, log *slog.Logger) *Scheduler {
	if lookbackDays < 1 {
		lookbackDays = 7
	}
	return &Scheduler{driver: driver, pipeline: pipeline, lookback: lookbackDays, logger: log}
}

// Start registers the pipeline job with the underlying scheduler. Each
// trigger scans the window ending on the trigger date.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		to := domain.DateOf(trigger)
		from := to.AddDays(-s.lookback)

		report, err := s.pipeline.ProcessWindow(ctx, from, to)
		if err != nil {
			s.logError("scheduled run failed", "error", err)
			return
		}
		s.logInfo("scheduled run done",
			"from", from.ISO(), "to", to.ISO(),
			"found", report.Found, "new", len(report.Processed),
			"skipped", report.Skipped, "failed", report.Failed)
	}

	return s.driver.Start(ctx, job)
}

// Stop tears down the underlying scheduler, waiting for a running job.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}

func (s *Scheduler) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Scheduler) logError(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
