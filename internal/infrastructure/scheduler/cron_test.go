package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestCronRejectsInvalidSpec(t *testing.T) {
	t.Parallel()

	c := NewCron("not a cron spec", time.UTC)
	err := c.Start(context.Background(), func(time.Time) {})
	if err == nil {
		t.Fatal("expected an error for an invalid cron expression")
	}
}

func TestCronStartAndStop(t *testing.T) {
	t.Parallel()

	c := NewCron("0 7 * * *", time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.Start(ctx, func(time.Time) {}); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := c.Start(ctx, func(time.Time) {}); err != nil {
		t.Fatalf("second Start must be a no-op, got %v", err)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := c.Stop(stopCtx); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if err := c.Stop(stopCtx); err != nil {
		t.Fatalf("second Stop must be a no-op, got %v", err)
	}
}

func TestCronNilJob(t *testing.T) {
	t.Parallel()

	c := NewCron("@hourly", nil)
	if err := c.Start(context.Background(), nil); err != nil {
		t.Fatalf("nil job must be ignored, got %v", err)
	}
}
