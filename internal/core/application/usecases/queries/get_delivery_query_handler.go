package queries

import (
	"context"
	"database/sql"
	"errors"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDeliveryQueryHandler reads one delivery row with its quote breakdown.
type GetDeliveryQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryQueryHandler creates a handler for single-delivery reads.
func NewGetDeliveryQueryHandler(db *gorm.DB) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{db: db}
}

// Handle executes the query. Returns an object-not-found error when no
// delivery has the requested ID.
func (h GetDeliveryQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryQuery,
) (GetDeliveryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			sender_id,
			pickup_street,
			dropoff_street,
			kind,
			status,
			payment_status,
			courier_id,
			quote_base_cents,
			quote_distance_cents,
			quote_package_fee_cents,
			quote_priority_surcharge_cents,
			quote_insurance_cents,
			quote_discount_cents,
			quote_total_cents,
			quote_currency,
			quote_surge_basis_points,
			quote_distance_km,
			quote_duration_min,
			quote_degraded,
			quote_promo_code,
			offer_expires_at,
			rebroadcast_count,
			pickup_proof_url,
			delivery_proof_url,
			created_at,
			updated_at
		FROM deliveries
		WHERE id = ?
	`, query.DeliveryID().Bytes()).Row()

	var resp GetDeliveryQueryResponse
	var id, senderID uuid.UUID
	var courierID uuid.NullUUID
	var kind, status, paymentStatus int
	var pickupProof, deliveryProof sql.NullString

	err := row.Scan(
		&id,
		&resp.Number,
		&senderID,
		&resp.PickupStreet,
		&resp.DropoffStreet,
		&kind,
		&status,
		&paymentStatus,
		&courierID,
		&resp.Quote.BaseCents,
		&resp.Quote.DistanceCents,
		&resp.Quote.PackageFeeCents,
		&resp.Quote.PrioritySurchargeCents,
		&resp.Quote.InsuranceCents,
		&resp.Quote.DiscountCents,
		&resp.Quote.TotalCents,
		&resp.Quote.Currency,
		&resp.Quote.SurgeBasisPoints,
		&resp.Quote.DistanceKm,
		&resp.Quote.DurationMin,
		&resp.Quote.Degraded,
		&resp.Quote.PromoCode,
		&resp.OfferExpiresAt,
		&resp.RebroadcastCount,
		&pickupProof,
		&deliveryProof,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDeliveryQueryResponse{}, errs.NewObjectNotFoundError(
			"delivery", query.DeliveryID().String())
	}
	if err != nil {
		return GetDeliveryQueryResponse{}, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetDeliveryQueryResponse{}, err
	}
	resp.SenderID, err = kernel.UUIDFromBytes(senderID[:])
	if err != nil {
		return GetDeliveryQueryResponse{}, err
	}
	if courierID.Valid {
		cID, cErr := kernel.UUIDFromBytes(courierID.UUID[:])
		if cErr != nil {
			return GetDeliveryQueryResponse{}, cErr
		}
		resp.CourierID = &cID
	}

	resp.Kind = delivery.Kind(kind).String()
	resp.Status = delivery.Status(status).String()
	resp.PaymentStatus = delivery.PaymentStatus(paymentStatus).String()
	resp.PickupProofURL = pickupProof.String
	resp.DeliveryProofURL = deliveryProof.String

	return resp, nil
}
