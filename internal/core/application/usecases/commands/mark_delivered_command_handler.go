package commands

import (
	"context"
	"time"

	"dropmarket/internal/core/ports"
)

// MarkDeliveredCommandHandler completes a picked-up delivery on the
// courier's report. Completion and the release of the courier's capacity
// slot commit in the same transaction, so a crash between them can never
// leave the courier's active count out of step with their deliveries.
type MarkDeliveredCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
	notifier   ports.Notifier
}

// NewMarkDeliveredCommandHandler creates a handler for delivery completion.
func NewMarkDeliveredCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		notifier:   notifier,
	}
}

// Handle processes the delivery completion report.
func (h MarkDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) error {
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
	courierRepo := uow.CourierRepository()

	aggregate, err := deliveryRepo.GetForUpdate(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = aggregate.MarkDelivered(cmd.CourierID(), cmd.ProofPhotoURL(), cmd.Point(), time.Now()); err != nil {
		return err
	}

	workingCourier, err := courierRepo.GetForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = workingCourier.Release(); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, workingCourier); err != nil {
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
			"proof_url":   cmd.ProofPhotoURL(),
		},
	})

	_ = h.notifier.Notify(ctx, aggregate.SenderID().String(), ports.NotifyDeliveryDelivered, map[string]string{
		"delivery_id": aggregate.ID().String(),
		"number":      aggregate.Number(),
	})

	return nil
}
