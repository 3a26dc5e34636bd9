package reviewrepo

import (
	"context"
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/review"
	"dropmarket/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM.
type GormReviewRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormReviewRepository creates a new GORM review repository.
func NewGormReviewRepository(db *gorm.DB, tracker aggregateTracker) *GormReviewRepository {
	return &GormReviewRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new review. A second review for the same (delivery, reviewer)
// pair violates the unique index and surfaces as a conflict error.
func (r *GormReviewRepository) Add(ctx context.Context, aggregate *review.Review) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictError("review", aggregate.Delivery().String(),
				"delivery is already reviewed by this reviewer")
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetForDelivery retrieves all reviews written for a delivery.
func (r *GormReviewRepository) GetForDelivery(
	ctx context.Context,
	deliveryID kernel.UUID,
) ([]*review.Review, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ReviewDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "delivery_id = ?", deliveryID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	reviews := make([]*review.Review, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, aggregate)
	}

	return reviews, nil
}

// SumForCourier returns the sum and count of overall stars over every review
// of the courier. The review transaction uses it to fully recompute the
// courier's rating aggregate, so a lost increment can never drift the
// average.
func (r *GormReviewRepository) SumForCourier(
	ctx context.Context,
	courierID kernel.UUID,
) (int64, int64, error) {
	if err := courierID.Validate(); err != nil {
		return 0, 0, err
	}

	var result struct {
		Sum   int64
		Count int64
	}

	err := r.db.WithContext(ctx).
		Model(&ReviewDTO{}).
		Select("COALESCE(SUM(stars), 0) AS sum, COUNT(*) AS count").
		Where("courier_id = ?", courierID.Bytes()).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}

	return result.Sum, result.Count, nil
}
