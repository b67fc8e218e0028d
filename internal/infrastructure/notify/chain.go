package notify

import (
	"context"
	"errors"
	"log/slog"

	"EditalScanner/internal/ports"
)

// Chain tries notifiers in order and stops at the first success.
type Chain struct {
	notifiers []ports.Notifier
	logger    *slog.Logger
}

var _ ports.Notifier = (*Chain)(nil)

// NewChain wires fallback notifiers in delivery-priority order.
func NewChain(log *slog.Logger, notifiers ...ports.Notifier) *Chain {
	return &Chain{notifiers: notifiers, logger: log}
}

// Len reports how many notifiers are wired.
func (c *Chain) Len() int {
	return len(c.notifiers)
}

// Notify delivers through the first notifier that accepts the message.
func (c *Chain) Notify(ctx context.Context, subject, body string) error {
	if len(c.notifiers) == 0 {
		return errors.New("no notifier configured")
	}

	var failed []error
	for _, notifier := range c.notifiers {
		err := notifier.Notify(ctx, subject, body)
		if err == nil {
			return nil
		}
		if c.logger != nil {
			c.logger.Warn("notifier failed, trying next", "error", err)
		}
		failed = append(failed, err)
	}
	return errors.Join(failed...)
}
