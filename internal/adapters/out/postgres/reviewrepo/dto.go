// Package reviewrepo provides data transfer objects and mapping functions
// for review persistence. A unique index over (delivery_id, reviewer_id)
// enforces the one-review-per-delivery-per-reviewer rule at the storage
// level.
package reviewrepo

import (
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/review"

	"github.com/google/uuid"
)

// ReviewDTO represents the database structure for persisting reviews.
type ReviewDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_delivery_reviewer"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_delivery_reviewer"`
	CourierID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Stars      int       `gorm:"type:int;not null"`
	Politeness int       `gorm:"type:int;not null"`
	Speed      int       `gorm:"type:int;not null"`
	Care       int       `gorm:"type:int;not null"`
	Comment    string    `gorm:"type:varchar(4000)"`
	Anonymous  bool      `gorm:"type:boolean;not null"`
}

// TableName specifies the database table name for review entities.
func (ReviewDTO) TableName() string {
	return "reviews"
}

// fromDomain converts a review domain object to its database representation.
func fromDomain(aggregate *review.Review) ReviewDTO {
	return ReviewDTO{
		ID:         aggregate.ID().Bytes(),
		DeliveryID: aggregate.Delivery().Bytes(),
		ReviewerID: aggregate.Reviewer().Bytes(),
		CourierID:  aggregate.Courier().Bytes(),
		Stars:      aggregate.Stars(),
		Politeness: aggregate.Categories().Politeness,
		Speed:      aggregate.Categories().Speed,
		Care:       aggregate.Categories().Care,
		Comment:    aggregate.Comment(),
		Anonymous:  aggregate.IsAnonymous(),
	}
}

// toDomain converts a database DTO to a review domain object.
func toDomain(dto ReviewDTO) (*review.Review, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}

	reviewerID, err := kernel.UUIDFromBytes(dto.ReviewerID[:])
	if err != nil {
		return nil, err
	}

	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	return review.RestoreReview(
		id,
		deliveryID,
		reviewerID,
		courierID,
		dto.Stars,
		review.CategoryRatings{
			Politeness: dto.Politeness,
			Speed:      dto.Speed,
			Care:       dto.Care,
		},
		dto.Comment,
		dto.Anonymous,
	)
}
