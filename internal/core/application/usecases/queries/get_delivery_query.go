// Package queries contains read operations that bypass the domain model.
// Implements the Query pattern for the read side of the CQRS architecture.
// Handlers read denormalized rows straight from the database; clients use
// them to reconcile state after missing broadcast events.
package queries

import (
	"errors"
	"time"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery retrieves the full state of one delivery: lifecycle
// status, quote breakdown, payment status, courier and proof photos.
type GetDeliveryQuery struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDeliveryQuery creates a query for one delivery.
func NewGetDeliveryQuery(deliveryID kernel.UUID) (GetDeliveryQuery, error) {
	query := GetDeliveryQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setDeliveryID(deliveryID); err != nil {
		return GetDeliveryQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

// DeliveryID returns the identifier of the requested delivery.
func (q GetDeliveryQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

func (q *GetDeliveryQuery) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	q.deliveryID = deliveryID
	return nil
}

// QuoteView is the price breakdown of a delivery as shown to the sender.
// All amounts are in minor units of Currency.
type QuoteView struct {
	BaseCents              int64
	DistanceCents          int64
	PackageFeeCents        int64
	PrioritySurchargeCents int64
	InsuranceCents         int64
	DiscountCents          int64
	TotalCents             int64
	Currency               string
	SurgeBasisPoints       int64
	DistanceKm             float64
	DurationMin            int
	Degraded               bool
	PromoCode              string
}

// GetDeliveryQueryResponse is the full read model of one delivery.
type GetDeliveryQueryResponse struct {
	ID               kernel.UUID
	Number           string
	SenderID         kernel.UUID
	PickupStreet     string
	DropoffStreet    string
	Kind             string
	Status           string
	PaymentStatus    string
	CourierID        *kernel.UUID
	Quote            QuoteView
	OfferExpiresAt   time.Time
	RebroadcastCount int
	PickupProofURL   string
	DeliveryProofURL string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
