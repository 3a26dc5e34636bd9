package commands

import (
	"context"
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/ports"
)

// SweepExpiredOffersCommandHandler walks deliveries still waiting for a
// courier past their offer window. Offers under the re-broadcast limit get a
// fresh window and go back out to couriers; exhausted offers are failed and
// the sender is told no courier accepted.
type SweepExpiredOffersCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.EventPublisher
	notifier   ports.Notifier
}

// NewSweepExpiredOffersCommandHandler creates a handler for the offer expiry
// sweep.
func NewSweepExpiredOffersCommandHandler(
	uowFactory DeliveryUoWFactory,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
) SweepExpiredOffersCommandHandler {
	return SweepExpiredOffersCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		notifier:   notifier,
	}
}

// Handle processes one sweep pass. All state changes commit in a single
// transaction; broadcasts and notifications go out after commit so a failed
// sweep never announces offers that were rolled back.
func (h SweepExpiredOffersCommandHandler) Handle(ctx context.Context, cmd SweepExpiredOffersCommand) error {
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

	now := time.Now()

	expired, err := deliveryRepo.GetOpenExpired(ctx, now)
	if err != nil {
		return err
	}

	var reopened, failed []*delivery.Delivery

	for _, aggregate := range expired {
		if aggregate.RebroadcastCount() < delivery.MaxOfferRebroadcasts {
			if err = aggregate.ExtendOffer(offerWindow, now); err != nil {
				return err
			}
			reopened = append(reopened, aggregate)
		} else {
			if err = aggregate.MarkFailed("no courier accepted", now); err != nil {
				return err
			}
			failed = append(failed, aggregate)
		}

		if err = deliveryRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, aggregate := range reopened {
		_ = h.publisher.Publish(ctx, ports.Event{
			Name:  ports.EventBidReopened,
			Topic: ports.CouriersTopic,
			At:    time.Now(),
			Data: map[string]any{
				"delivery_id": aggregate.ID().String(),
				"number":      aggregate.Number(),
				"pickup_lat":  aggregate.Pickup().Point().Latitude(),
				"pickup_lon":  aggregate.Pickup().Point().Longitude(),
				"kind":        aggregate.Kind().String(),
				"expires_at":  aggregate.OfferExpiresAt().UTC().Format(time.RFC3339),
			},
		})
	}

	for _, aggregate := range failed {
		_ = h.publisher.Publish(ctx, ports.Event{
			Name:  ports.EventDeliveryStatus,
			Topic: ports.DeliveryTopic(aggregate.ID().String()),
			At:    time.Now(),
			Data: map[string]any{
				"delivery_id": aggregate.ID().String(),
				"status":      aggregate.Status().String(),
				"reason":      "no courier accepted",
			},
		})

		_ = h.notifier.Notify(ctx, aggregate.SenderID().String(), ports.NotifyDeliveryFailed, map[string]string{
			"delivery_id": aggregate.ID().String(),
			"number":      aggregate.Number(),
		})
	}

	return nil
}
