package queries

import (
	"context"
	"database/sql"
	"errors"

	"dropmarket/internal/core/domain/model/courier"
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCourierQueryHandler reads one courier profile row.
type GetCourierQueryHandler struct {
	db *gorm.DB
}

// NewGetCourierQueryHandler creates a handler for courier profile reads.
func NewGetCourierQueryHandler(db *gorm.DB) GetCourierQueryHandler {
	return GetCourierQueryHandler{db: db}
}

// Handle executes the query. Returns an object-not-found error when no
// courier has the requested ID.
func (h GetCourierQueryHandler) Handle(
	ctx context.Context,
	query GetCourierQuery,
) (GetCourierQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			verification,
			available,
			service_radius_km,
			rating_sum,
			rating_count,
			completed_count
		FROM couriers
		WHERE id = ?
	`, query.CourierID().Bytes()).Row()

	var resp GetCourierQueryResponse
	var id uuid.UUID
	var verification int
	var ratingSum int64

	err := row.Scan(
		&id,
		&resp.Name,
		&verification,
		&resp.Available,
		&resp.ServiceRadiusKm,
		&ratingSum,
		&resp.RatingCount,
		&resp.CompletedCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetCourierQueryResponse{}, errs.NewObjectNotFoundError(
			"courier", query.CourierID().String())
	}
	if err != nil {
		return GetCourierQueryResponse{}, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetCourierQueryResponse{}, err
	}
	resp.Verification = courier.VerificationStatus(verification).String()
	if resp.RatingCount > 0 {
		resp.AverageRating = float64(ratingSum) / float64(resp.RatingCount)
	}

	return resp, nil
}
