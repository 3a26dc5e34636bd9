package queries

import (
	"errors"
	"time"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/guard"
)

var ErrGetDeliveryTrackingQueryIsNotConstructed = errors.New(
	"GetDeliveryTrackingQuery must be created via NewGetDeliveryTrackingQuery constructor",
)

// GetDeliveryTrackingQuery retrieves the append-only tracking history of a
// delivery: status milestones and courier location pings in order.
type GetDeliveryTrackingQuery struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDeliveryTrackingQuery creates a tracking history query.
func NewGetDeliveryTrackingQuery(deliveryID kernel.UUID) (GetDeliveryTrackingQuery, error) {
	query := GetDeliveryTrackingQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setDeliveryID(deliveryID); err != nil {
		return GetDeliveryTrackingQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryTrackingQueryIsNotConstructed)
}

// DeliveryID returns the identifier of the tracked delivery.
func (q GetDeliveryTrackingQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

func (q *GetDeliveryTrackingQuery) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	q.deliveryID = deliveryID
	return nil
}

// GetDeliveryTrackingQueryResponse is one entry of the tracking history.
// Location pings carry coordinates; some milestones do not.
type GetDeliveryTrackingQueryResponse struct {
	Seq        int
	Status     string
	Latitude   *float64
	Longitude  *float64
	Milestone  bool
	Note       string
	RecordedAt time.Time
}
