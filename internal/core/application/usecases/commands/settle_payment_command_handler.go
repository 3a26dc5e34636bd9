package commands

import (
	"context"
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/payment"
	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/errs"
)

// SettlePaymentCommandHandler charges the sender's stored payment instrument
// for a delivered delivery. A charge is attempted at most once per delivery:
// already-settled deliveries are rejected before the gateway is reached, and
// a declined charge rolls everything back so a later retry starts clean.
type SettlePaymentCommandHandler struct {
	uowFactory SettlementUoWFactory
	gateway    ports.PaymentGateway
	publisher  ports.EventPublisher
	notifier   ports.Notifier
}

// NewSettlePaymentCommandHandler creates a settlement handler.
func NewSettlePaymentCommandHandler(
	uowFactory SettlementUoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.EventPublisher,
	notifier ports.Notifier,
) SettlePaymentCommandHandler {
	return SettlePaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		publisher:  publisher,
		notifier:   notifier,
	}
}

// Handle processes the settlement attempt. The delivery row is locked for the
// whole attempt, so concurrent retries serialize and the loser sees the paid
// status instead of double charging.
func (h SettlePaymentCommandHandler) Handle(ctx context.Context, cmd SettlePaymentCommand) error {
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

	if aggregate.PaymentStatus() == delivery.PaymentPaid {
		return errs.NewConflictError("delivery", aggregate.ID().String(),
			"payment already settled")
	}

	if aggregate.Status() != delivery.Delivered {
		return errs.NewConflictError("delivery", aggregate.ID().String(),
			"delivery is not delivered yet")
	}

	total := aggregate.Quote().Total()

	result, err := h.gateway.Charge(ctx, ports.ChargeRequest{
		AmountCents:   total.AmountCents(),
		Currency:      total.Currency(),
		InstrumentRef: aggregate.InstrumentRef(),
		Metadata: map[string]string{
			"delivery_id":     aggregate.ID().String(),
			"delivery_number": aggregate.Number(),
		},
	})
	if err != nil {
		return err
	}

	if err = aggregate.MarkPaid(time.Now()); err != nil {
		return err
	}

	transaction, err := payment.NewTransaction(
		kernel.NewUUID(),
		aggregate.ID(),
		total,
		result.ProviderID,
		result.FeeCents,
		result.ReceiptURL,
		time.Now(),
	)
	if err != nil {
		return err
	}

	if err = uow.TransactionRepository().Add(ctx, transaction); err != nil {
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
			"delivery_id":    aggregate.ID().String(),
			"payment_status": aggregate.PaymentStatus().String(),
		},
	})

	_ = h.notifier.Notify(ctx, aggregate.SenderID().String(), ports.NotifyPaymentSettled, map[string]string{
		"delivery_id": aggregate.ID().String(),
		"number":      aggregate.Number(),
		"receipt_url": result.ReceiptURL,
	})

	return nil
}
