package commands

import (
	"errors"

	"dropmarket/internal/pkg/guard"
)

var ErrRetrySettlementsCommandIsNotConstructed = errors.New(
	"RetrySettlementsCommand must be created via NewRetrySettlementsCommand constructor",
)

// RetrySettlementsCommand triggers a pass over delivered deliveries whose
// payment has not settled yet, re-attempting the charge for each one.
type RetrySettlementsCommand struct {
	guard guard.ConstructorGuard
}

// NewRetrySettlementsCommand creates a command to retry pending settlements.
// This is a parameterless command meant to run from a scheduler.
func NewRetrySettlementsCommand() RetrySettlementsCommand {
	command := RetrySettlementsCommand{
		guard: guard.NewConstructorGuard(),
	}

	return command
}

// Validate ensures the command was created through the constructor.
func (c *RetrySettlementsCommand) Validate() error {
	return c.guard.Validate(ErrRetrySettlementsCommandIsNotConstructed)
}
