package delivery_test

import (
	"fmt"
	"testing"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate valid statuses", func(t *testing.T) {
		validStatuses := []delivery.Status{
			delivery.Requested,
			delivery.CourierAssigned,
			delivery.PickedUp,
			delivery.Delivered,
			delivery.Cancelled,
			delivery.Failed,
		}

		for _, status := range validStatuses {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown and out of range values", func(t *testing.T) {
		for _, status := range []delivery.Status{delivery.Unknown, delivery.Status(-1), delivery.Status(100)} {
			err := status.Validate()

			require.Error(t, err)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		}
	})
}

func TestStatus_Assign(t *testing.T) {
	t.Run("should assign from Requested", func(t *testing.T) {
		newStatus, err := delivery.Requested.Assign()

		require.NoError(t, err)
		assert.Equal(t, delivery.CourierAssigned, newStatus)
	})

	t.Run("should conflict when already assigned", func(t *testing.T) {
		alreadyTaken := []delivery.Status{
			delivery.CourierAssigned,
			delivery.PickedUp,
			delivery.Delivered,
		}

		for _, status := range alreadyTaken {
			t.Run(fmt.Sprintf("from %s", status.String()), func(t *testing.T) {
				_, err := status.Assign()

				require.Error(t, err)
				require.ErrorIs(t, err, errs.ErrConflict)
				assert.Contains(t, err.Error(), "delivery already assigned")
			})
		}
	})

	t.Run("should conflict from terminal statuses", func(t *testing.T) {
		for _, status := range []delivery.Status{delivery.Cancelled, delivery.Failed} {
			_, err := status.Assign()

			require.Error(t, err)
			require.ErrorIs(t, err, errs.ErrConflict)
			assert.Contains(t, err.Error(), "terminal")
		}
	})
}

func TestStatus_PickUp(t *testing.T) {
	t.Run("should pick up from CourierAssigned", func(t *testing.T) {
		newStatus, err := delivery.CourierAssigned.PickUp()

		require.NoError(t, err)
		assert.Equal(t, delivery.PickedUp, newStatus)
	})

	t.Run("should conflict when already picked up", func(t *testing.T) {
		_, err := delivery.PickedUp.PickUp()

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("should reject skipping assignment", func(t *testing.T) {
		_, err := delivery.Requested.PickUp()

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_Deliver(t *testing.T) {
	t.Run("should deliver from PickedUp", func(t *testing.T) {
		newStatus, err := delivery.PickedUp.Deliver()

		require.NoError(t, err)
		assert.Equal(t, delivery.Delivered, newStatus)
	})

	t.Run("should reject skipping pickup", func(t *testing.T) {
		for _, status := range []delivery.Status{delivery.Requested, delivery.CourierAssigned} {
			_, err := status.Deliver()

			require.Error(t, err)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		}
	})

	t.Run("should conflict when already delivered", func(t *testing.T) {
		_, err := delivery.Delivered.Deliver()

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestStatus_CancelAndFail(t *testing.T) {
	t.Run("should cancel from every non-terminal non-delivered status", func(t *testing.T) {
		for _, status := range []delivery.Status{delivery.Requested, delivery.CourierAssigned, delivery.PickedUp} {
			newStatus, err := status.Cancel()

			require.NoError(t, err)
			assert.Equal(t, delivery.Cancelled, newStatus)
		}
	})

	t.Run("should fail from every non-terminal non-delivered status", func(t *testing.T) {
		for _, status := range []delivery.Status{delivery.Requested, delivery.CourierAssigned, delivery.PickedUp} {
			newStatus, err := status.Fail()

			require.NoError(t, err)
			assert.Equal(t, delivery.Failed, newStatus)
		}
	})

	t.Run("should conflict on delivered and terminal statuses", func(t *testing.T) {
		for _, status := range []delivery.Status{delivery.Delivered, delivery.Cancelled, delivery.Failed} {
			_, cancelErr := status.Cancel()
			_, failErr := status.Fail()

			require.ErrorIs(t, cancelErr, errs.ErrConflict)
			require.ErrorIs(t, failErr, errs.ErrConflict)
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, delivery.Cancelled.IsTerminal())
	assert.True(t, delivery.Failed.IsTerminal())
	assert.False(t, delivery.Requested.IsTerminal())
	assert.False(t, delivery.Delivered.IsTerminal())
}

func TestStatus_ValidateCanHaveCourier(t *testing.T) {
	t.Run("should require courier while assigned picked up or delivered", func(t *testing.T) {
		for _, status := range []delivery.Status{delivery.CourierAssigned, delivery.PickedUp, delivery.Delivered} {
			require.NoError(t, status.ValidateCanHaveCourier(true))
			require.Error(t, status.ValidateCanHaveCourier(false))
		}
	})

	t.Run("should forbid courier otherwise", func(t *testing.T) {
		for _, status := range []delivery.Status{delivery.Requested, delivery.Cancelled, delivery.Failed} {
			require.NoError(t, status.ValidateCanHaveCourier(false))
			require.Error(t, status.ValidateCanHaveCourier(true))
		}
	})
}
