package queries

import (
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/guard"
)

var ErrGetCourierQueryIsNotConstructed = errors.New(
	"GetCourierQuery must be created via NewGetCourierQuery constructor",
)

// GetCourierQuery retrieves a courier's public profile: verification state,
// availability, rating and completed delivery count.
type GetCourierQuery struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCourierQuery creates a courier profile query.
func NewGetCourierQuery(courierID kernel.UUID) (GetCourierQuery, error) {
	query := GetCourierQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setCourierID(courierID); err != nil {
		return GetCourierQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierQueryIsNotConstructed)
}

// CourierID returns the identifier of the requested courier.
func (q GetCourierQuery) CourierID() kernel.UUID {
	return q.courierID
}

func (q *GetCourierQuery) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	q.courierID = courierID
	return nil
}

// GetCourierQueryResponse is the courier profile read model.
type GetCourierQueryResponse struct {
	ID              kernel.UUID
	Name            string
	Verification    string
	Available       bool
	ServiceRadiusKm float64
	AverageRating   float64
	RatingCount     int64
	CompletedCount  int64
}
