package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers human-readable alerts. Delivery failures are never
// fatal to the caller's pipeline; they are logged and dropped.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// NoopNotifier is used when no delivery channel is configured
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, text string) error {
	slog.Debug("Notification suppressed, no notifier configured", "text", text)
	return nil
}
