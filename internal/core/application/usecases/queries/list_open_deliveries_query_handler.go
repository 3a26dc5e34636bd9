package queries

import (
	"context"
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOpenDeliveriesQueryHandler reads the open offers inside a courier's
// service radius. The radius check runs in SQL with the haversine formula so
// the feed never ships offers the courier could not accept anyway.
type ListOpenDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewListOpenDeliveriesQueryHandler creates a handler for the courier feed
// read path.
func NewListOpenDeliveriesQueryHandler(db *gorm.DB) ListOpenDeliveriesQueryHandler {
	return ListOpenDeliveriesQueryHandler{db: db}
}

// Handle executes the query. An unknown courier yields an empty feed.
func (h ListOpenDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query ListOpenDeliveriesQuery,
) ([]ListOpenDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	offers := make([]ListOpenDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.number,
			d.pickup_street,
			d.pickup_lat,
			d.pickup_lon,
			d.dropoff_street,
			d.kind,
			d.quote_distance_km,
			d.quote_total_cents,
			d.quote_currency,
			d.offer_expires_at
		FROM deliveries d
		JOIN couriers c ON c.id = ?
		WHERE d.status = ?
		  AND d.offer_expires_at > ?
		  AND 6371 * acos(least(1.0,
		        cos(radians(c.lat)) * cos(radians(d.pickup_lat)) *
		        cos(radians(d.pickup_lon) - radians(c.lon)) +
		        sin(radians(c.lat)) * sin(radians(d.pickup_lat))
		      )) <= c.service_radius_km
		ORDER BY d.offer_expires_at
	`, query.CourierID().Bytes(), delivery.Requested, time.Now()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var offer ListOpenDeliveriesQueryResponse
		var id uuid.UUID
		var kind int

		err = rows.Scan(
			&id,
			&offer.Number,
			&offer.PickupStreet,
			&offer.PickupLat,
			&offer.PickupLon,
			&offer.DropoffStreet,
			&kind,
			&offer.DistanceKm,
			&offer.TotalCents,
			&offer.Currency,
			&offer.OfferExpiresAt,
		)
		if err != nil {
			return nil, err
		}

		offer.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		offer.Kind = delivery.Kind(kind).String()

		offers = append(offers, offer)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return offers, nil
}
