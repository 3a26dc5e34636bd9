package commands

import (
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/guard"
)

var ErrRecordCourierLocationCommandIsNotConstructed = errors.New(
	"RecordCourierLocationCommand must be created via NewRecordCourierLocationCommand constructor",
)

// RecordCourierLocationCommand represents a location ping from the courier
// working a delivery. Pings append non-milestone tracking records and feed
// the live tracking stream.
type RecordCourierLocationCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID
	point      kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewRecordCourierLocationCommand creates a location ping command.
func NewRecordCourierLocationCommand(
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	point kernel.GeoPoint,
) (RecordCourierLocationCommand, error) {
	command := RecordCourierLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDeliveryID(deliveryID),
		command.setCourierID(courierID),
		command.setPoint(point),
	); err != nil {
		return RecordCourierLocationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordCourierLocationCommand) Validate() error {
	return c.guard.Validate(ErrRecordCourierLocationCommandIsNotConstructed)
}

// DeliveryID returns the identifier of the tracked delivery.
func (c RecordCourierLocationCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// CourierID returns the pinging courier's identifier.
func (c RecordCourierLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Point returns the reported location.
func (c RecordCourierLocationCommand) Point() kernel.GeoPoint {
	return c.point
}

func (c *RecordCourierLocationCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *RecordCourierLocationCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *RecordCourierLocationCommand) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.point = point
	return nil
}
