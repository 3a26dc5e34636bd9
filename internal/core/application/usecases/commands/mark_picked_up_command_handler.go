package commands

import (
	"context"
	"time"

	"dropmarket/internal/core/ports"
)

// MarkPickedUpCommandHandler advances an assigned delivery to picked_up on
// the courier's report, with proof.
type MarkPickedUpCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.EventPublisher
}

// NewMarkPickedUpCommandHandler creates a handler for pickup reports.
func NewMarkPickedUpCommandHandler(
	uowFactory DeliveryUoWFactory,
	publisher ports.EventPublisher,
) MarkPickedUpCommandHandler {
	return MarkPickedUpCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the pickup report. The aggregate enforces the actor
// check (only the assigned courier), the proof requirement and the ordered
// transition; the handler only supplies the transaction and the post-commit
// broadcast.
func (h MarkPickedUpCommandHandler) Handle(ctx context.Context, cmd MarkPickedUpCommand) error {
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

	if err = aggregate.MarkPickedUp(cmd.CourierID(), cmd.ProofPhotoURL(), cmd.Point(), time.Now()); err != nil {
		return err
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
			"proof_url":   cmd.ProofPhotoURL(),
		},
	})

	return nil
}
