// Package promorepo provides data transfer objects and mapping functions for
// promo code persistence, including the usage ledger that keeps discount
// accounting idempotent across retried creations.
package promorepo

import (
	"time"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/promo"

	"github.com/google/uuid"
)

// PromoCodeDTO represents the database structure for persisting promo codes.
// Percent and fixed codes share the table; percent is 0 for fixed codes.
type PromoCodeDTO struct {
	Code          string    `gorm:"type:varchar(64);primaryKey"`
	Percent       int       `gorm:"type:int;not null"`
	FixedCents    int64     `gorm:"type:bigint;not null"`
	MaxDiscCents  int64     `gorm:"type:bigint;not null;column:max_discount_cents"`
	MinTotalCents int64     `gorm:"type:bigint;not null"`
	Currency      string    `gorm:"type:varchar(3);not null"`
	ActiveFrom    time.Time `gorm:"not null"`
	ActiveUntil   time.Time `gorm:"not null"`
	Active        bool      `gorm:"type:boolean;not null"`
}

// TableName specifies the database table name for promo codes.
func (PromoCodeDTO) TableName() string {
	return "promo_codes"
}

// PromoUsageDTO records one application of a code to a delivery. The
// composite primary key makes repeated inserts for the same pair no-ops.
type PromoUsageDTO struct {
	Code       string    `gorm:"type:varchar(64);primaryKey"`
	DeliveryID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName specifies the database table name for promo usage rows.
func (PromoUsageDTO) TableName() string {
	return "promo_usages"
}

// fromDomain converts a promo code domain object to its database
// representation.
func fromDomain(code *promo.PromoCode) PromoCodeDTO {
	currency := code.MinTotal().Currency()
	return PromoCodeDTO{
		Code:          code.Code(),
		Percent:       code.Percent(),
		FixedCents:    code.FixedAmount().AmountCents(),
		MaxDiscCents:  code.MaxDiscount().AmountCents(),
		MinTotalCents: code.MinTotal().AmountCents(),
		Currency:      currency,
		ActiveFrom:    code.ActiveFrom(),
		ActiveUntil:   code.ActiveUntil(),
		Active:        code.IsActive(),
	}
}

// toDomain converts a database DTO to a promo code domain object.
func toDomain(dto PromoCodeDTO) (*promo.PromoCode, error) {
	fixedAmount, err := kernel.NewMoney(dto.FixedCents, dto.Currency)
	if err != nil {
		return nil, err
	}

	maxDiscount, err := kernel.NewMoney(dto.MaxDiscCents, dto.Currency)
	if err != nil {
		return nil, err
	}

	minTotal, err := kernel.NewMoney(dto.MinTotalCents, dto.Currency)
	if err != nil {
		return nil, err
	}

	return promo.RestorePromoCode(
		dto.Code,
		dto.Percent,
		fixedAmount,
		maxDiscount,
		minTotal,
		dto.ActiveFrom,
		dto.ActiveUntil,
		dto.Active,
	)
}
