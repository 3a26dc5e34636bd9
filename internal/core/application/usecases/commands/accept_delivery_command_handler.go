package commands

import (
	"context"
	"fmt"
	"time"

	"dropmarket/internal/core/domain/model/courier"
	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/errs"
)

// IneligibleError reports that the courier cannot accept the delivery for a
// reason of their own: not approved, offline, at capacity or out of range.
// It unwraps to errs.ErrConflict but is distinguishable from the race loss,
// so clients know whether retrying the same offer can ever help.
type IneligibleError struct {
	Reason courier.IneligibilityReason
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("courier is not eligible: %s", e.Reason)
}

func (e *IneligibleError) Unwrap() error {
	return errs.ErrConflict
}

// AcceptDeliveryCommandHandler resolves the acceptance race. It locks the
// delivery and the courier rows in one transaction, re-checks eligibility
// under the lock, and performs the requested -> courier_assigned transition.
// Of all concurrent callers exactly one commits; every other one receives a
// conflict.
type AcceptDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
	notifier   ports.Notifier
}

// NewAcceptDeliveryCommandHandler creates a handler for delivery
// acceptance.
func NewAcceptDeliveryCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
) AcceptDeliveryCommandHandler {
	return AcceptDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		notifier:   notifier,
	}
}

// Handle processes the acceptance attempt.
//
// Outcomes a caller must distinguish:
//   - nil: this courier won the race
//   - *IneligibleError: the courier cannot take this delivery; retrying the
//     same offer will not help until their own state changes
//   - conflict "delivery already assigned": another courier won; do not
//     retry this offer
func (h AcceptDeliveryCommandHandler) Handle(ctx context.Context, cmd AcceptDeliveryCommand) error {
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

	acceptingCourier, err := courierRepo.GetForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	eligible, reason, err := acceptingCourier.CanAccept(aggregate.Pickup().Point())
	if err != nil {
		return err
	}
	if !eligible {
		return &IneligibleError{Reason: reason}
	}

	if err = aggregate.Assign(acceptingCourier.ID(), time.Now()); err != nil {
		return err
	}

	if err = acceptingCourier.Reserve(); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, acceptingCourier); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.announce(ctx, aggregate.ID().String(), aggregate.Number(), acceptingCourier)

	return nil
}

// announce publishes the assignment and pings the sender after commit.
// Both are fire-and-forget.
func (h AcceptDeliveryCommandHandler) announce(
	ctx context.Context,
	deliveryID string,
	number string,
	acceptingCourier *courier.Courier,
) {
	_ = h.publisher.Publish(ctx, ports.Event{
		Name:  ports.EventDeliveryAssigned,
		Topic: ports.DeliveryTopic(deliveryID),
		At:    time.Now(),
		Data: map[string]any{
			"delivery_id":    deliveryID,
			"courier_id":     acceptingCourier.ID().String(),
			"courier_name":   acceptingCourier.Name(),
			"courier_rating": acceptingCourier.AverageRating(),
		},
	})

	_ = h.notifier.Notify(ctx, acceptingCourier.Phone(), ports.NotifyDeliveryAssigned, map[string]string{
		"delivery_id": deliveryID,
		"number":      number,
	})
}
