// Package alerts delivers operator notifications for failed lookups.
// Delivery is fire-and-forget: callers enqueue on a Dispatcher and never
// wait on the notification channel.
package alerts

import (
	"context"
	"log/slog"
)

// Alert is a single operator notification.
type Alert struct {
	Title   string
	Message string
}

// Notifier delivers an alert to an operator-facing channel.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a Notifier that writes alerts to the log.
// It stands in for push delivery when no credentials are configured.
func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger.With("notifier", "log")}
}

func (n *logNotifier) Notify(ctx context.Context, alert Alert) error {
	n.logger.WarnContext(ctx, alert.Title, "message", alert.Message)
	return nil
}
