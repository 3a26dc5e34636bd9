package commands

import (
	"context"
)

// VerifyCourierCommandHandler resolves a courier's pending verification.
type VerifyCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewVerifyCourierCommandHandler creates a verification handler.
func NewVerifyCourierCommandHandler(uowFactory CourierUoWFactory) VerifyCourierCommandHandler {
	return VerifyCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the operator's decision.
func (h VerifyCourierCommandHandler) Handle(ctx context.Context, cmd VerifyCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()

	aggregate, err := courierRepo.GetForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	switch cmd.Decision() {
	case DecisionApprove:
		err = aggregate.Approve()
	case DecisionReject:
		err = aggregate.Reject()
	}
	if err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
