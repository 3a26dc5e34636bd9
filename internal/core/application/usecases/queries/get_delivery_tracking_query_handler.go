package queries

import (
	"context"
	"database/sql"

	"dropmarket/internal/core/domain/model/delivery"

	"gorm.io/gorm"
)

// GetDeliveryTrackingQueryHandler reads the tracking history of a delivery
// in append order.
type GetDeliveryTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryTrackingQueryHandler creates a handler for tracking reads.
func NewGetDeliveryTrackingQueryHandler(db *gorm.DB) GetDeliveryTrackingQueryHandler {
	return GetDeliveryTrackingQueryHandler{db: db}
}

// Handle executes the query. An unknown delivery yields an empty history.
func (h GetDeliveryTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryTrackingQuery,
) ([]GetDeliveryTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]GetDeliveryTrackingQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			seq,
			status,
			lat,
			lon,
			milestone,
			note,
			recorded_at
		FROM tracking_records
		WHERE delivery_id = ?
		ORDER BY seq
	`, query.DeliveryID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var record GetDeliveryTrackingQueryResponse
		var status int
		var lat, lon sql.NullFloat64
		var note sql.NullString

		err = rows.Scan(
			&record.Seq,
			&status,
			&lat,
			&lon,
			&record.Milestone,
			&note,
			&record.RecordedAt,
		)
		if err != nil {
			return nil, err
		}

		record.Status = delivery.Status(status).String()
		if lat.Valid && lon.Valid {
			record.Latitude = &lat.Float64
			record.Longitude = &lon.Float64
		}
		record.Note = note.String

		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
