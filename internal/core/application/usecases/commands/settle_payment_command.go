package commands

import (
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/guard"
)

var ErrSettlePaymentCommandIsNotConstructed = errors.New(
	"SettlePaymentCommand must be created via NewSettlePaymentCommand constructor",
)

// SettlePaymentCommand represents a request to charge the stored payment
// instrument of a delivered delivery. Settlement is idempotent: the first
// successful charge wins and every later attempt is rejected as a conflict
// before the gateway is called.
type SettlePaymentCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSettlePaymentCommand creates a settlement command.
func NewSettlePaymentCommand(deliveryID kernel.UUID) (SettlePaymentCommand, error) {
	command := SettlePaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setDeliveryID(deliveryID); err != nil {
		return SettlePaymentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SettlePaymentCommand) Validate() error {
	return c.guard.Validate(ErrSettlePaymentCommandIsNotConstructed)
}

// DeliveryID returns the identifier of the delivery being settled.
func (c SettlePaymentCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c *SettlePaymentCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}
