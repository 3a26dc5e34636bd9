package notify

import (
	"context"
	"log/slog"
)

// SlogNotifier writes notifications to the structured log. The default when
// no delivery channel is configured, and good enough for development.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier logging through the given logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger.With("component", "notifier")}
}

// Notify logs the notification.
func (n *SlogNotifier) Notify(ctx context.Context, recipient string, kind string, data map[string]string) error {
	attrs := make([]any, 0, 2*len(data)+4)
	attrs = append(attrs, "recipient", recipient, "kind", kind)
	for key, value := range data {
		attrs = append(attrs, key, value)
	}

	n.logger.InfoContext(ctx, "Notification", attrs...)
	return nil
}
