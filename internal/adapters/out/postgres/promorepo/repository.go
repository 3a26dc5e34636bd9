package promorepo

import (
	"context"
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/promo"
	"dropmarket/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPromoRepository implements PromoRepository using GORM.
type GormPromoRepository struct {
	db *gorm.DB
}

// NewGormPromoRepository creates a new GORM promo code repository.
func NewGormPromoRepository(db *gorm.DB) *GormPromoRepository {
	return &GormPromoRepository{db: db}
}

// Add saves a promo code. Codes are provisioned through back-office tooling;
// the marketplace itself only reads them.
func (r *GormPromoRepository) Add(ctx context.Context, code *promo.PromoCode) error {
	if err := code.Validate(); err != nil {
		return err
	}

	dto := fromDomain(code)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByCode retrieves a promo code by its code string.
func (r *GormPromoRepository) GetByCode(ctx context.Context, code string) (*promo.PromoCode, error) {
	var dto PromoCodeDTO
	err := r.db.WithContext(ctx).
		First(&dto, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("promo code", code)
		}
		return nil, err
	}

	return toDomain(dto)
}

// RecordUsage records that a code was applied to a delivery. The insert is
// idempotent per (code, delivery): a repeated call reports inserted=false
// and no error, so retried creations never double-count.
func (r *GormPromoRepository) RecordUsage(
	ctx context.Context,
	code string,
	deliveryID kernel.UUID,
) (bool, error) {
	if err := deliveryID.Validate(); err != nil {
		return false, err
	}

	usage := PromoUsageDTO{
		Code:       code,
		DeliveryID: deliveryID.Bytes(),
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&usage)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
