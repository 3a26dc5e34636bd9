package commands_test

import (
	"testing"

	"dropmarket/internal/core/application/usecases/commands"
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/review"
	"dropmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func goodRatings(t *testing.T) review.CategoryRatings {
	t.Helper()
	return review.CategoryRatings{Politeness: 5, Speed: 4, Care: 5}
}

func TestSubmitReviewCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	senderID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	testDelivery := newDeliveredDelivery(t, senderID, courierID)
	testCourier := newApprovedCourier(t, courierID)

	cmd, err := commands.NewSubmitReviewCommand(
		kernel.NewUUID(), testDelivery.ID(), senderID, 4, goodRatings(t), "quick and careful", false)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	reviewRepo := new(MockReviewRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once(),
		uow.On("ReviewRepository").Return(reviewRepo).Once(),
		reviewRepo.On("Add", ctx, mock.AnythingOfType("*review.Review")).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("GetForUpdate", ctx, courierID).Return(testCourier, nil).Once(),
		reviewRepo.On("SumForCourier", ctx, courierID).Return(int64(9), int64(2), nil).Once(),
		courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockReviewUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSubmitReviewCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)

	// The rating aggregate is fully recomputed from the review table.
	assert.InDelta(t, 4.5, testCourier.AverageRating(), 0.001)

	addedReview := reviewRepo.Calls[0].Arguments[1].(*review.Review)
	assert.True(t, addedReview.Courier().IsEqual(courierID))
	assert.Equal(t, 4, addedReview.Stars())

	uow.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
}

func TestSubmitReviewCommandHandler_Handle_NotDeliveredYet(t *testing.T) {
	ctx := t.Context()

	senderID := kernel.NewUUID()
	testDelivery := newRequestedDelivery(t, senderID)

	cmd, err := commands.NewSubmitReviewCommand(
		kernel.NewUUID(), testDelivery.ID(), senderID, 5, goodRatings(t), "", false)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockReviewUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSubmitReviewCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertNotCalled(t, "ReviewRepository")
}

func TestSubmitReviewCommandHandler_Handle_StrangerReviewer(t *testing.T) {
	ctx := t.Context()

	senderID := kernel.NewUUID()
	strangerID := kernel.NewUUID()
	testDelivery := newDeliveredDelivery(t, senderID, kernel.NewUUID())

	cmd, err := commands.NewSubmitReviewCommand(
		kernel.NewUUID(), testDelivery.ID(), strangerID, 1, goodRatings(t), "", false)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockReviewUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSubmitReviewCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	uow.AssertNotCalled(t, "ReviewRepository")
}

func TestSubmitReviewCommandHandler_Handle_DuplicateReview(t *testing.T) {
	ctx := t.Context()

	senderID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	testDelivery := newDeliveredDelivery(t, senderID, courierID)

	cmd, err := commands.NewSubmitReviewCommand(
		kernel.NewUUID(), testDelivery.ID(), senderID, 4, goodRatings(t), "", false)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	reviewRepo := new(MockReviewRepository)
	uow := new(MockUoW)

	duplicate := errs.NewConflictError("review", testDelivery.ID().String(), "review already exists")

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Get", ctx, testDelivery.ID()).Return(testDelivery, nil).Once(),
		uow.On("ReviewRepository").Return(reviewRepo).Once(),
		reviewRepo.On("Add", ctx, mock.AnythingOfType("*review.Review")).Return(duplicate).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockReviewUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSubmitReviewCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertNotCalled(t, "Commit", ctx)
}
