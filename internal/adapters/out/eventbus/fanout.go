package eventbus

import (
	"context"
	"log/slog"

	"dropmarket/internal/core/ports"
)

// Fanout publishes every event to the in-process hub and, when configured,
// bridges it to an external publisher. Bridge failures are logged and
// swallowed: the broadcast channel is fire-and-forget end to end, and the
// hub delivery must not depend on the broker being up.
type Fanout struct {
	hub    ports.EventPublisher
	bridge ports.EventPublisher
	logger *slog.Logger
}

// NewFanout creates a fanout publisher. The bridge may be nil.
func NewFanout(hub ports.EventPublisher, bridge ports.EventPublisher, logger *slog.Logger) *Fanout {
	return &Fanout{
		hub:    hub,
		bridge: bridge,
		logger: logger.With("component", "eventbus_fanout"),
	}
}

// Publish delivers the event to the hub and the bridge.
func (f *Fanout) Publish(ctx context.Context, event ports.Event) error {
	if err := f.hub.Publish(ctx, event); err != nil {
		return err
	}

	if f.bridge != nil {
		if err := f.bridge.Publish(ctx, event); err != nil {
			f.logger.ErrorContext(ctx, "Failed to bridge event",
				"event", event.Name, "topic", event.Topic, "error", err)
		}
	}

	return nil
}
