package ports

import (
	"context"
	"time"
)

// Event names published on the broadcast channel. Payloads are additive-only
// JSON objects; consumers must tolerate unknown fields.
const (
	EventBidOpened        = "bid.opened"
	EventBidReopened      = "bid.reopened"
	EventDeliveryAssigned = "delivery.assigned"
	EventDeliveryStatus   = "delivery.status"
	EventCourierLocation  = "courier.location"
	EventChatMessage      = "chat.message"
)

// CouriersTopic addresses all online couriers with bid opportunities.
const CouriersTopic = "couriers"

// DeliveryTopic returns the per-delivery topic followed by the sender, the
// assigned courier and observers.
func DeliveryTopic(deliveryID string) string {
	return "delivery." + deliveryID
}

// Event is one message on the broadcast channel.
type Event struct {
	// Name is the event discriminant, one of the Event* constants.
	Name string

	// Topic addresses the event: a per-delivery topic or CouriersTopic.
	Topic string

	// At is the publication time.
	At time.Time

	// Data is the event body. Fields are only ever added, never renamed or
	// removed, so stale clients keep working.
	Data map[string]any
}

// EventPublisher publishes events to the broadcast channel. Delivery to
// subscribers is best-effort: slow or disconnected subscribers miss events
// and reconcile through the query read path.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
