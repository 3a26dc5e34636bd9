package commands

import (
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

var ErrVerifyCourierCommandIsNotConstructed = errors.New(
	"VerifyCourierCommand must be created via NewVerifyCourierCommand constructor",
)

// VerificationDecision is an operator's verdict on a pending courier.
type VerificationDecision string

const (
	DecisionApprove VerificationDecision = "approve"
	DecisionReject  VerificationDecision = "reject"
)

// VerifyCourierCommand represents an operator resolving a courier's pending
// verification. The decision is final: approved and rejected couriers cannot
// be re-verified.
type VerifyCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	decision  VerificationDecision

	guard guard.ConstructorGuard
}

// NewVerifyCourierCommand creates a verification command.
func NewVerifyCourierCommand(
	courierID kernel.UUID,
	decision VerificationDecision,
) (VerifyCourierCommand, error) {
	command := VerifyCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(courierID),
		command.setDecision(decision),
	); err != nil {
		return VerifyCourierCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyCourierCommand) Validate() error {
	return c.guard.Validate(ErrVerifyCourierCommandIsNotConstructed)
}

// CourierID returns the courier's identifier.
func (c VerifyCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Decision returns the operator's verdict.
func (c VerifyCourierCommand) Decision() VerificationDecision {
	return c.decision
}

func (c *VerifyCourierCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *VerifyCourierCommand) setDecision(decision VerificationDecision) error {
	if decision != DecisionApprove && decision != DecisionReject {
		return errs.NewValueIsInvalidError("decision")
	}

	c.decision = decision
	return nil
}
