package paymentrepo

import (
	"context"
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/payment"
	"dropmarket/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM.
type GormTransactionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormTransactionRepository creates a new GORM settlement transaction
// repository.
func NewGormTransactionRepository(db *gorm.DB, tracker aggregateTracker) *GormTransactionRepository {
	return &GormTransactionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a settlement transaction. A second transaction for the same
// delivery violates the unique index and surfaces as a conflict error.
func (r *GormTransactionRepository) Add(ctx context.Context, aggregate *payment.Transaction) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictError("transaction", aggregate.DeliveryID().String(),
				"delivery is already settled")
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetForDelivery retrieves the settlement transaction of a delivery.
// Returns an object-not-found error when the delivery is unsettled.
func (r *GormTransactionRepository) GetForDelivery(
	ctx context.Context,
	deliveryID kernel.UUID,
) (*payment.Transaction, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dto TransactionDTO
	err := r.db.WithContext(ctx).
		First(&dto, "delivery_id = ?", deliveryID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transaction", deliveryID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
