package ports

import (
	"context"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/review"
)

// ReviewRepository defines the persistence contract for reviews.
type ReviewRepository interface {
	// Add persists a new review. A second review for the same
	// (delivery, reviewer) pair violates the unique index and surfaces as a
	// conflict error.
	Add(ctx context.Context, aggregate *review.Review) error

	// GetForDelivery retrieves all reviews written for a delivery.
	GetForDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*review.Review, error)

	// SumForCourier returns the sum and count of overall stars over every
	// review of the courier. The review transaction uses it to fully
	// recompute the courier's rating aggregate.
	SumForCourier(ctx context.Context, courierID kernel.UUID) (sum int64, count int64, err error)
}
