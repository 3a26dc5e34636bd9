package commands

import (
	"context"
	"time"

	"dropmarket/internal/core/ports"
)

// RecordCourierLocationCommandHandler appends a courier location ping to an
// active delivery's tracking history and fans it out to watchers.
type RecordCourierLocationCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.EventPublisher
}

// NewRecordCourierLocationCommandHandler creates a handler for location
// pings.
func NewRecordCourierLocationCommandHandler(
	uowFactory DeliveryUoWFactory,
	publisher ports.EventPublisher,
) RecordCourierLocationCommandHandler {
	return RecordCourierLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the location ping. The aggregate rejects pings from
// anyone but the assigned courier and pings on inactive deliveries.
func (h RecordCourierLocationCommandHandler) Handle(ctx context.Context, cmd RecordCourierLocationCommand) error {
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

	aggregate, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = aggregate.RecordLocation(cmd.CourierID(), cmd.Point(), time.Now()); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, ports.Event{
		Name:  ports.EventCourierLocation,
		Topic: ports.DeliveryTopic(aggregate.ID().String()),
		At:    time.Now(),
		Data: map[string]any{
			"delivery_id": aggregate.ID().String(),
			"lat":         cmd.Point().Latitude(),
			"lon":         cmd.Point().Longitude(),
		},
	})

	return nil
}
