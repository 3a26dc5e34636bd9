package commands

import (
	"context"
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/errs"
)

// CancelDeliveryCommandHandler cancels a delivery on the sender's request.
// Cancellation is only open to the sender and only before pickup; if a
// courier already accepted, the cancellation compensates the assignment by
// releasing their capacity slot in the same transaction.
type CancelDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
	notifier   ports.Notifier
}

// NewCancelDeliveryCommandHandler creates a handler for cancellations.
func NewCancelDeliveryCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		notifier:   notifier,
	}
}

// Handle processes the cancellation request.
func (h CancelDeliveryCommandHandler) Handle(ctx context.Context, cmd CancelDeliveryCommand) error {
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

	deliveryRepo := uow.DeliveryRepository()

	aggregate, err := deliveryRepo.GetForUpdate(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if !aggregate.SenderID().IsEqual(cmd.SenderID()) {
		return errs.NewUnauthorizedError(
			"sender "+cmd.SenderID().String(),
			"cancel delivery "+aggregate.Number())
	}

	if aggregate.Status() == delivery.PickedUp {
		return errs.NewConflictError("delivery", aggregate.ID().String(),
			"delivery already picked up")
	}

	assignedCourierID := aggregate.Courier()

	reason := cmd.Reason()
	if reason == "" {
		reason = "cancelled by sender"
	}
	if err = aggregate.Cancel(reason, time.Now()); err != nil {
		return err
	}

	// Compensate an existing assignment: the courier gets their slot back
	// without a completion credit.
	if assignedCourierID != nil {
		courierRepo := uow.CourierRepository()

		assignedCourier, err := courierRepo.GetForUpdate(ctx, *assignedCourierID)
		if err != nil {
			return err
		}
		if err = assignedCourier.ReleaseWithoutCompletion(); err != nil {
			return err
		}
		if err = courierRepo.Update(ctx, assignedCourier); err != nil {
			return err
		}
	}

	if err = deliveryRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, ports.Event{
		Name:  ports.EventDeliveryStatus,
		Topic: ports.DeliveryTopic(aggregate.ID().String()),
		At:    time.Now(),
		Data: map[string]any{
			"delivery_id": aggregate.ID().String(),
			"status":      aggregate.Status().String(),
			"reason":      reason,
		},
	})

	_ = h.notifier.Notify(ctx, aggregate.SenderID().String(), ports.NotifyDeliveryCancelled, map[string]string{
		"delivery_id": aggregate.ID().String(),
		"number":      aggregate.Number(),
	})

	return nil
}
