package commands

import (
	"errors"

	"dropmarket/internal/pkg/guard"
)

var ErrSweepExpiredOffersCommandIsNotConstructed = errors.New(
	"SweepExpiredOffersCommand must be created via NewSweepExpiredOffersCommand constructor",
)

// SweepExpiredOffersCommand triggers a pass over open deliveries whose offer
// window ran out without any courier accepting. Each expired offer is either
// re-broadcast with a fresh window or, after the re-broadcast limit, failed.
type SweepExpiredOffersCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepExpiredOffersCommand creates a command to sweep expired offers.
// This is a parameterless command meant to run from a scheduler.
func NewSweepExpiredOffersCommand() SweepExpiredOffersCommand {
	command := SweepExpiredOffersCommand{
		guard: guard.NewConstructorGuard(),
	}

	return command
}

// Validate ensures the command was created through the constructor.
func (c *SweepExpiredOffersCommand) Validate() error {
	return c.guard.Validate(ErrSweepExpiredOffersCommandIsNotConstructed)
}
