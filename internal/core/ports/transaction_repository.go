package ports

import (
	"context"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/payment"
)

// TransactionRepository defines the persistence contract for settlement
// transactions. Only successful charges are stored; the table holds at most
// one row per delivery.
type TransactionRepository interface {
	// Add persists a settlement transaction. A second transaction for the
	// same delivery violates the unique index and surfaces as a conflict
	// error.
	Add(ctx context.Context, aggregate *payment.Transaction) error

	// GetForDelivery retrieves the settlement transaction of a delivery.
	// Returns an object-not-found error when the delivery is unsettled.
	GetForDelivery(ctx context.Context, deliveryID kernel.UUID) (*payment.Transaction, error)
}
