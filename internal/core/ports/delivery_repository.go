package ports

import (
	"context"
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery
// aggregates, including their packages and append-only tracking history.
type DeliveryRepository interface {
	// Add persists a new delivery aggregate with its packages and the
	// initial tracking record.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery aggregate. Tracking
	// records are append-only: rows already persisted are never rewritten.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetForUpdate retrieves a delivery aggregate with a row lock
	// (SELECT ... FOR UPDATE). Concurrent acceptance attempts serialize on
	// this lock; it must be called inside a transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetOpenExpired retrieves deliveries still waiting for a courier whose
	// offer deadline passed. Used by the offer expiry sweep.
	GetOpenExpired(ctx context.Context, now time.Time) ([]*delivery.Delivery, error)

	// GetDeliveredUnpaid retrieves delivered deliveries that are not settled
	// yet. Used by the settlement retry sweep.
	GetDeliveredUnpaid(ctx context.Context) ([]*delivery.Delivery, error)
}
