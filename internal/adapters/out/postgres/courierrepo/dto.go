// Package courierrepo provides data transfer objects and mapping functions
// for courier persistence. It implements the repository pattern for the
// courier aggregate, handling the conversion between domain entities and
// database representations.
package courierrepo

import (
	"dropmarket/internal/core/domain/model/courier"
	"dropmarket/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier
// aggregates. The rating aggregate (sum and count) is stored denormalized so
// the directory read path never joins the reviews table.
type CourierDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"type:varchar(255);not null"`
	Phone            string    `gorm:"type:varchar(32);not null"`
	Verification     int       `gorm:"type:int;not null"`
	Available        bool      `gorm:"type:boolean;not null"`
	MaxConcurrent    int       `gorm:"type:int;not null"`
	ActiveDeliveries int       `gorm:"type:int;not null"`
	ServiceRadiusKm  float64   `gorm:"type:decimal(8,3);not null"`
	Lat              float64   `gorm:"type:decimal(9,6);not null"`
	Lon              float64   `gorm:"type:decimal(9,6);not null"`
	RatingSum        int64     `gorm:"type:bigint;not null"`
	RatingCount      int64     `gorm:"type:bigint;not null"`
	CompletedCount   int64     `gorm:"type:bigint;not null"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain aggregate to its database
// representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:               aggregate.ID().Bytes(),
		Name:             aggregate.Name(),
		Phone:            aggregate.Phone(),
		Verification:     int(aggregate.Verification()),
		Available:        aggregate.IsAvailable(),
		MaxConcurrent:    aggregate.MaxConcurrent(),
		ActiveDeliveries: aggregate.ActiveDeliveries(),
		ServiceRadiusKm:  aggregate.ServiceRadiusKm(),
		Lat:              aggregate.Location().Latitude(),
		Lon:              aggregate.Location().Longitude(),
		RatingSum:        aggregate.RatingSum(),
		RatingCount:      aggregate.RatingCount(),
		CompletedCount:   aggregate.CompletedCount(),
	}
}

// toDomain converts a database DTO to a courier domain aggregate using
// RestoreCourier, so a corrupted row never becomes a live aggregate.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		dto.Phone,
		courier.VerificationStatus(dto.Verification),
		dto.Available,
		dto.MaxConcurrent,
		dto.ActiveDeliveries,
		dto.ServiceRadiusKm,
		location,
		dto.RatingSum,
		dto.RatingCount,
		dto.CompletedCount,
	)
}
