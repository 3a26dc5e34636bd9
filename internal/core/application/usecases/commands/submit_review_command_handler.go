package commands

import (
	"context"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/review"
	"dropmarket/internal/pkg/errs"
)

// SubmitReviewCommandHandler records the sender's review of the courier who
// delivered their shipment and recomputes the courier's rating aggregate in
// the same transaction, so the directory never shows a stale mean.
type SubmitReviewCommandHandler struct {
	uowFactory ReviewUoWFactory
}

// NewSubmitReviewCommandHandler creates a review submission handler.
func NewSubmitReviewCommandHandler(uowFactory ReviewUoWFactory) SubmitReviewCommandHandler {
	return SubmitReviewCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the review submission. Duplicate submissions fail on the
// repository's unique (delivery, reviewer) constraint.
func (h SubmitReviewCommandHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) error {
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

	aggregate, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if aggregate.Status() != delivery.Delivered {
		return errs.NewConflictError("delivery", aggregate.ID().String(),
			"delivery is not delivered yet")
	}

	if !aggregate.SenderID().IsEqual(cmd.ReviewerID()) {
		return errs.NewUnauthorizedError(
			"reviewer "+cmd.ReviewerID().String(),
			"review delivery "+aggregate.Number())
	}

	courierID := aggregate.Courier()
	if courierID == nil {
		return errs.NewConflictError("delivery", aggregate.ID().String(),
			"delivery has no courier to review")
	}

	newReview, err := review.NewReview(
		cmd.ReviewID(),
		cmd.DeliveryID(),
		cmd.ReviewerID(),
		*courierID,
		cmd.Stars(),
		cmd.Categories(),
		cmd.Comment(),
		cmd.IsAnonymous(),
	)
	if err != nil {
		return err
	}

	reviewRepo := uow.ReviewRepository()

	if err = reviewRepo.Add(ctx, newReview); err != nil {
		return err
	}

	courierRepo := uow.CourierRepository()

	ratedCourier, err := courierRepo.GetForUpdate(ctx, *courierID)
	if err != nil {
		return err
	}

	sum, count, err := reviewRepo.SumForCourier(ctx, *courierID)
	if err != nil {
		return err
	}

	if err = ratedCourier.RecalculateRating(sum, count); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, ratedCourier); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
