package commands

import (
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/guard"
)

var (
	ErrMarkPickedUpCommandIsNotConstructed = errors.New(
		"MarkPickedUpCommand must be created via NewMarkPickedUpCommand constructor",
	)
	ErrProofPhotoIsRequired = errors.New("proof photo URL is required")
)

// MarkPickedUpCommand represents the assigned courier's report that the
// packages were collected, with the mandatory proof photo and the pickup
// location.
type MarkPickedUpCommand struct { //nolint:recvcheck //using for validation
	deliveryID    kernel.UUID
	courierID     kernel.UUID
	proofPhotoURL string
	point         kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewMarkPickedUpCommand creates a command for the courier to report
// pickup.
func NewMarkPickedUpCommand(
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	proofPhotoURL string,
	point kernel.GeoPoint,
) (MarkPickedUpCommand, error) {
	command := MarkPickedUpCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDeliveryID(deliveryID),
		command.setCourierID(courierID),
		command.setProofPhotoURL(proofPhotoURL),
		command.setPoint(point),
	); err != nil {
		return MarkPickedUpCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkPickedUpCommand) Validate() error {
	return c.guard.Validate(ErrMarkPickedUpCommandIsNotConstructed)
}

// DeliveryID returns the identifier of the delivery being picked up.
func (c MarkPickedUpCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// CourierID returns the reporting courier's identifier.
func (c MarkPickedUpCommand) CourierID() kernel.UUID {
	return c.courierID
}

// ProofPhotoURL returns the stored proof photo reference.
func (c MarkPickedUpCommand) ProofPhotoURL() string {
	return c.proofPhotoURL
}

// Point returns the location the pickup was reported from.
func (c MarkPickedUpCommand) Point() kernel.GeoPoint {
	return c.point
}

func (c *MarkPickedUpCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *MarkPickedUpCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *MarkPickedUpCommand) setProofPhotoURL(proofPhotoURL string) error {
	if proofPhotoURL == "" {
		return ErrProofPhotoIsRequired
	}

	c.proofPhotoURL = proofPhotoURL
	return nil
}

func (c *MarkPickedUpCommand) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.point = point
	return nil
}
