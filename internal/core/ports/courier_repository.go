// Package ports defines the contracts between the application core and the
// infrastructure: repositories, the unit of work, the broadcast publisher
// and the external service gateways. Adapters implement these interfaces;
// handlers depend only on them.
package ports

import (
	"context"

	"dropmarket/internal/core/domain/model/courier"
	"dropmarket/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier
// aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetForUpdate retrieves a courier aggregate with a row lock
	// (SELECT ... FOR UPDATE). The acceptance transaction locks the courier
	// alongside the delivery so capacity checks cannot race.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetEligibleForPickup retrieves approved, available couriers with spare
	// capacity whose service radius covers the pickup point. Used to address
	// bid broadcasts.
	GetEligibleForPickup(ctx context.Context, pickup kernel.GeoPoint) ([]*courier.Courier, error)
}
