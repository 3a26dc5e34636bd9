package commands

import (
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/guard"
)

var ErrMarkDeliveredCommandIsNotConstructed = errors.New(
	"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
)

// MarkDeliveredCommand represents the assigned courier's report that the
// packages reached the recipient, with the mandatory proof photo and the
// dropoff location.
type MarkDeliveredCommand struct { //nolint:recvcheck //using for validation
	deliveryID    kernel.UUID
	courierID     kernel.UUID
	proofPhotoURL string
	point         kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewMarkDeliveredCommand creates a command for the courier to report
// delivery.
func NewMarkDeliveredCommand(
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	proofPhotoURL string,
	point kernel.GeoPoint,
) (MarkDeliveredCommand, error) {
	command := MarkDeliveredCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDeliveryID(deliveryID),
		command.setCourierID(courierID),
		command.setProofPhotoURL(proofPhotoURL),
		command.setPoint(point),
	); err != nil {
		return MarkDeliveredCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

// DeliveryID returns the identifier of the delivery being completed.
func (c MarkDeliveredCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// CourierID returns the reporting courier's identifier.
func (c MarkDeliveredCommand) CourierID() kernel.UUID {
	return c.courierID
}

// ProofPhotoURL returns the stored proof photo reference.
func (c MarkDeliveredCommand) ProofPhotoURL() string {
	return c.proofPhotoURL
}

// Point returns the location the delivery was reported from.
func (c MarkDeliveredCommand) Point() kernel.GeoPoint {
	return c.point
}

func (c *MarkDeliveredCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *MarkDeliveredCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *MarkDeliveredCommand) setProofPhotoURL(proofPhotoURL string) error {
	if proofPhotoURL == "" {
		return ErrProofPhotoIsRequired
	}

	c.proofPhotoURL = proofPhotoURL
	return nil
}

func (c *MarkDeliveredCommand) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.point = point
	return nil
}
