package ports

import (
	"context"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/promo"
)

// PromoRepository defines the persistence contract for promo codes and
// their usage records.
type PromoRepository interface {
	// GetByCode retrieves a promo code by its code string.
	GetByCode(ctx context.Context, code string) (*promo.PromoCode, error)

	// RecordUsage records that a code was applied to a delivery. The insert
	// is idempotent per (code, delivery): a repeated call reports
	// inserted=false and no error, so retried creations never double-count.
	RecordUsage(ctx context.Context, code string, deliveryID kernel.UUID) (inserted bool, err error)
}
