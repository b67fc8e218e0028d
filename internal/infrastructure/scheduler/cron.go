package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"EditalScanner/internal/ports"
)

// Cron runs jobs on a cron expression in a configured location.
type Cron struct {
	spec   string
	loc    *time.Location
	runner *cron.Cron
}

var _ ports.Scheduler = (*Cron)(nil)

// NewCron builds a scheduler from a standard five-field cron expression.
func NewCron(spec string, loc *time.Location) *Cron {
	if loc == nil {
		loc = time.UTC
	}
	return &Cron{spec: spec, loc: loc}
}

// Start registers the job and begins the schedule. Cancelling ctx also
// stops the schedule.
func (c *Cron) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if c.runner != nil {
		return nil
	}

	runner := cron.New(cron.WithLocation(c.loc))
	if _, err := runner.AddFunc(c.spec, func() {
		job(time.Now().In(c.loc))
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", c.spec, err)
	}

	runner.Start()
	c.runner = runner

	go func() {
		<-ctx.Done()
		runner.Stop()
	}()

	return nil
}

// Stop halts the schedule and waits for a running job to finish, up to
// ctx's deadline.
func (c *Cron) Stop(ctx context.Context) error {
	if c.runner == nil {
		return nil
	}

	done := c.runner.Stop()
	c.runner = nil

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
