package commands

import (
	"context"
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/errs"
)

// RetrySettlementsCommandHandler re-attempts payment for delivered
// deliveries that are still unpaid. Each delivery settles in its own
// transaction through the regular settlement handler, so one decline or
// conflict never blocks the rest of the batch.
type RetrySettlementsCommandHandler struct {
	uowFactory    DeliveryUoWFactory
	settleHandler SettlePaymentCommandHandler
}

// NewRetrySettlementsCommandHandler creates a handler for the settlement
// retry sweep.
func NewRetrySettlementsCommandHandler(
	uowFactory DeliveryUoWFactory,
	settleHandler SettlePaymentCommandHandler,
) RetrySettlementsCommandHandler {
	return RetrySettlementsCommandHandler{
		uowFactory:    uowFactory,
		settleHandler: settleHandler,
	}
}

// Handle processes one retry pass. Declined charges stay pending for the
// next pass; conflicts mean another worker settled the delivery first.
func (h RetrySettlementsCommandHandler) Handle(ctx context.Context, cmd RetrySettlementsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unpaid, err := h.listUnpaid(ctx)
	if err != nil {
		return err
	}

	for _, deliveryID := range unpaid {
		settleCmd, err := NewSettlePaymentCommand(deliveryID)
		if err != nil {
			return err
		}

		err = h.settleHandler.Handle(ctx, settleCmd)

		var declineErr *ports.DeclineError
		switch {
		case err == nil:
		case errors.As(err, &declineErr):
		case errors.Is(err, errs.ErrConflict):
		default:
			return err
		}
	}

	return nil
}

func (h RetrySettlementsCommandHandler) listUnpaid(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveries, err := uow.DeliveryRepository().GetDeliveredUnpaid(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(deliveries))
	for _, aggregate := range deliveries {
		ids = append(ids, aggregate.ID())
	}

	return ids, nil
}
