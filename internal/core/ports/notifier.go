package ports

import (
	"context"
)

// Notification kinds sent to senders and couriers.
const (
	NotifyDeliveryAssigned  = "delivery_assigned"
	NotifyDeliveryPickedUp  = "delivery_picked_up"
	NotifyDeliveryDelivered = "delivery_delivered"
	NotifyDeliveryCancelled = "delivery_cancelled"
	NotifyDeliveryFailed    = "delivery_failed"
	NotifyPaymentSettled    = "payment_settled"
)

// Notifier pushes out-of-band notifications to a recipient. Notifications
// are fire-and-forget: handlers call Notify after commit and log failures
// without propagating them.
type Notifier interface {
	Notify(ctx context.Context, recipient string, kind string, data map[string]string) error
}
