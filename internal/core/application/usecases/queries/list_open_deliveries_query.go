package queries

import (
	"errors"
	"time"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/guard"
)

var ErrListOpenDeliveriesQueryIsNotConstructed = errors.New(
	"ListOpenDeliveriesQuery must be created via NewListOpenDeliveriesQuery constructor",
)

// ListOpenDeliveriesQuery retrieves open offers a courier can accept:
// requested, unexpired and with a pickup inside the courier's service
// radius. This is the courier feed's reconnect read path.
type ListOpenDeliveriesQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewListOpenDeliveriesQuery creates an open-offers query for one courier.
func NewListOpenDeliveriesQuery(courierID kernel.UUID) (ListOpenDeliveriesQuery, error) {
	query := ListOpenDeliveriesQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setCourierID(courierID); err != nil {
		return ListOpenDeliveriesQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOpenDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListOpenDeliveriesQueryIsNotConstructed)
}

// CourierID returns the identifier of the browsing courier.
func (q ListOpenDeliveriesQuery) CourierID() kernel.UUID {
	return q.courierID
}

func (q *ListOpenDeliveriesQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	q.courierID = courierID
	return nil
}

// ListOpenDeliveriesQueryResponse is one open offer as shown in the courier
// feed.
type ListOpenDeliveriesQueryResponse struct {
	ID             kernel.UUID
	Number         string
	PickupStreet   string
	PickupLat      float64
	PickupLon      float64
	DropoffStreet  string
	Kind           string
	DistanceKm     float64
	TotalCents     int64
	Currency       string
	OfferExpiresAt time.Time
}
