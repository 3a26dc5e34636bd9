package delivery

import (
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly
// initialized Address. Addresses must be created via NewAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is the resolved pickup or dropoff location of a delivery: the
// free-text line the sender entered plus the geocoded coordinate it resolved
// to. Address is an immutable value object.
type Address struct { //nolint:recvcheck //using for validation
	street string
	point  kernel.GeoPoint
	guard  guard.ConstructorGuard
}

// NewAddress creates an Address from a non-empty street line and a valid
// geocoded point.
func NewAddress(street string, point kernel.GeoPoint) (Address, error) {
	address := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(address.setStreet(street), address.setPoint(point)); err != nil {
		return Address{}, err
	}

	return address, nil
}

// Validate checks if the Address was properly constructed via NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the free-text address line.
func (a Address) Street() string {
	return a.street
}

// Point returns the geocoded coordinates.
func (a Address) Point() kernel.GeoPoint {
	return a.point
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	a.point = point
	return nil
}
