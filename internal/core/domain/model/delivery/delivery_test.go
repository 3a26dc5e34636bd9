package delivery_test

import (
	"testing"
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	money, err := kernel.NewMoney(cents, kernel.DefaultCurrency)
	require.NoError(t, err)
	return money
}

func mustPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return point
}

func mustAddress(t *testing.T, street string, lat, lon float64) delivery.Address {
	t.Helper()
	address, err := delivery.NewAddress(street, mustPoint(t, lat, lon))
	require.NoError(t, err)
	return address
}

func mustQuote(t *testing.T) delivery.Quote {
	t.Helper()
	quote, err := delivery.NewQuote(
		mustMoney(t, 250),
		mustMoney(t, 300),
		mustMoney(t, 150),
		mustMoney(t, 0),
		mustMoney(t, 0),
		mustMoney(t, 0),
		10_000, 5.0, 15, false, "")
	require.NoError(t, err)
	return quote
}

func mustPackage(t *testing.T) *delivery.Package {
	t.Helper()
	pkg, err := delivery.NewPackage(
		kernel.NewUUID(), delivery.SizeSmall, 1200, mustMoney(t, 5000), false, false)
	require.NoError(t, err)
	return pkg
}

func newTestDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(
		kernel.NewUUID(),
		kernel.NewUUID(),
		mustAddress(t, "12 Baker St", 40.7128, -74.0060),
		mustAddress(t, "90 Church St", 40.7484, -73.9857),
		[]*delivery.Package{mustPackage(t)},
		delivery.KindStandard,
		mustQuote(t),
		"tok_4242",
		2*time.Minute,
		time.Now(),
	)
	require.NoError(t, err)
	return d
}

func TestNewDelivery(t *testing.T) {
	t.Run("should create delivery in Requested status with pending payment", func(t *testing.T) {
		d := newTestDelivery(t)

		assert.Equal(t, delivery.Requested, d.Status())
		assert.Equal(t, delivery.PaymentPending, d.PaymentStatus())
		assert.Nil(t, d.Courier())
		assert.Zero(t, d.RebroadcastCount())
		require.NoError(t, d.Validate())
	})

	t.Run("should derive a stable DM number from the ID", func(t *testing.T) {
		d := newTestDelivery(t)

		assert.Regexp(t, `^DM-[0-9A-F]{8}$`, d.Number())
	})

	t.Run("should write the initial milestone tracking record", func(t *testing.T) {
		d := newTestDelivery(t)

		tracking := d.Tracking()
		require.Len(t, tracking, 1)
		assert.Equal(t, delivery.Requested, tracking[0].Status())
		assert.True(t, tracking[0].IsMilestone())
		require.NotNil(t, tracking[0].Point())
	})

	t.Run("should reject delivery without packages", func(t *testing.T) {
		_, err := delivery.NewDelivery(
			kernel.NewUUID(), kernel.NewUUID(),
			mustAddress(t, "a", 1, 1), mustAddress(t, "b", 2, 2),
			nil, delivery.KindStandard, mustQuote(t), "tok", time.Minute, time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject delivery without payment instrument", func(t *testing.T) {
		_, err := delivery.NewDelivery(
			kernel.NewUUID(), kernel.NewUUID(),
			mustAddress(t, "a", 1, 1), mustAddress(t, "b", 2, 2),
			[]*delivery.Package{mustPackage(t)},
			delivery.KindStandard, mustQuote(t), "", time.Minute, time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject direct struct instantiation", func(t *testing.T) {
		var d delivery.Delivery

		require.ErrorIs(t, d.Validate(), delivery.ErrDeliveryIsNotConstructed)
	})
}

func TestDelivery_Assign(t *testing.T) {
	t.Run("should assign the winning courier", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()

		require.NoError(t, d.Assign(courierID, time.Now()))

		assert.Equal(t, delivery.CourierAssigned, d.Status())
		require.NotNil(t, d.Courier())
		assert.True(t, d.Courier().IsEqual(courierID))
		assert.Len(t, d.Tracking(), 2)
	})

	t.Run("should reject the losing courier with a conflict", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.Assign(kernel.NewUUID(), time.Now()))

		err := d.Assign(kernel.NewUUID(), time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "delivery already assigned")
	})
}

func TestDelivery_PickupAndDelivery(t *testing.T) {
	t.Run("should walk the happy path and keep proofs", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		point := mustPoint(t, 40.72, -74.0)

		require.NoError(t, d.Assign(courierID, time.Now()))
		require.NoError(t, d.MarkPickedUp(courierID, "s3://proofs/pickup.jpg", point, time.Now()))
		require.NoError(t, d.MarkDelivered(courierID, "s3://proofs/dropoff.jpg", point, time.Now()))

		assert.Equal(t, delivery.Delivered, d.Status())
		assert.Equal(t, "s3://proofs/pickup.jpg", d.PickupProofURL())
		assert.Equal(t, "s3://proofs/dropoff.jpg", d.DeliveryProofURL())
		require.NotNil(t, d.Courier())
		assert.Len(t, d.Tracking(), 4)
	})

	t.Run("should reject pickup from a stranger courier", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.Assign(kernel.NewUUID(), time.Now()))

		err := d.MarkPickedUp(kernel.NewUUID(), "s3://p.jpg", mustPoint(t, 1, 1), time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should require a proof photo on pickup", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		require.NoError(t, d.Assign(courierID, time.Now()))

		err := d.MarkPickedUp(courierID, "", mustPoint(t, 1, 1), time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject delivery before pickup", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		require.NoError(t, d.Assign(courierID, time.Now()))

		err := d.MarkDelivered(courierID, "s3://d.jpg", mustPoint(t, 1, 1), time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestDelivery_CancelAndFail(t *testing.T) {
	t.Run("should drop the courier reference on cancellation", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.Assign(kernel.NewUUID(), time.Now()))

		require.NoError(t, d.Cancel("sender cancelled", time.Now()))

		assert.Equal(t, delivery.Cancelled, d.Status())
		assert.Nil(t, d.Courier())
	})

	t.Run("should drop the courier reference on failure", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.Assign(kernel.NewUUID(), time.Now()))

		require.NoError(t, d.MarkFailed("no courier reachable", time.Now()))

		assert.Equal(t, delivery.Failed, d.Status())
		assert.Nil(t, d.Courier())
	})

	t.Run("should reject cancelling a delivered delivery", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		point := mustPoint(t, 1, 1)
		require.NoError(t, d.Assign(courierID, time.Now()))
		require.NoError(t, d.MarkPickedUp(courierID, "s3://p.jpg", point, time.Now()))
		require.NoError(t, d.MarkDelivered(courierID, "s3://d.jpg", point, time.Now()))

		err := d.Cancel("too late", time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestDelivery_RecordLocation(t *testing.T) {
	t.Run("should append a non-milestone ping while active", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		require.NoError(t, d.Assign(courierID, time.Now()))

		require.NoError(t, d.RecordLocation(courierID, mustPoint(t, 40.73, -74.0), time.Now()))

		tracking := d.Tracking()
		last := tracking[len(tracking)-1]
		assert.False(t, last.IsMilestone())
		require.NotNil(t, last.Point())
	})

	t.Run("should reject pings when not active", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()

		err := d.RecordLocation(courierID, mustPoint(t, 1, 1), time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}

func TestDelivery_OfferExpiry(t *testing.T) {
	t.Run("should report expiry only while Requested", func(t *testing.T) {
		d := newTestDelivery(t)

		assert.False(t, d.IsOfferExpired(time.Now()))
		assert.True(t, d.IsOfferExpired(time.Now().Add(3*time.Minute)))
	})

	t.Run("should extend the offer up to the re-broadcast limit", func(t *testing.T) {
		d := newTestDelivery(t)

		for i := range delivery.MaxOfferRebroadcasts {
			require.NoError(t, d.ExtendOffer(time.Minute, time.Now()))
			assert.Equal(t, i+1, d.RebroadcastCount())
		}

		err := d.ExtendOffer(time.Minute, time.Now())
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "re-broadcast limit")
	})

	t.Run("should not extend an assigned delivery", func(t *testing.T) {
		d := newTestDelivery(t)
		require.NoError(t, d.Assign(kernel.NewUUID(), time.Now()))

		err := d.ExtendOffer(time.Minute, time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestDelivery_Payment(t *testing.T) {
	deliveredDelivery := func(t *testing.T) *delivery.Delivery {
		t.Helper()
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		point := mustPoint(t, 1, 1)
		require.NoError(t, d.Assign(courierID, time.Now()))
		require.NoError(t, d.MarkPickedUp(courierID, "s3://p.jpg", point, time.Now()))
		require.NoError(t, d.MarkDelivered(courierID, "s3://d.jpg", point, time.Now()))
		return d
	}

	t.Run("should mark a delivered delivery paid exactly once", func(t *testing.T) {
		d := deliveredDelivery(t)

		require.NoError(t, d.MarkPaid(time.Now()))
		assert.Equal(t, delivery.PaymentPaid, d.PaymentStatus())

		err := d.MarkPaid(time.Now())
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "payment already processed")
	})

	t.Run("should reject settling before delivery", func(t *testing.T) {
		d := newTestDelivery(t)

		err := d.MarkPaid(time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should record a declined attempt and allow retry", func(t *testing.T) {
		d := deliveredDelivery(t)

		require.NoError(t, d.MarkPaymentFailed(time.Now()))
		assert.Equal(t, delivery.PaymentFailed, d.PaymentStatus())

		require.NoError(t, d.MarkPaid(time.Now()))
		assert.Equal(t, delivery.PaymentPaid, d.PaymentStatus())
	})

	t.Run("should not mark a paid delivery failed", func(t *testing.T) {
		d := deliveredDelivery(t)
		require.NoError(t, d.MarkPaid(time.Now()))

		err := d.MarkPaymentFailed(time.Now())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestRestoreDelivery(t *testing.T) {
	t.Run("should round trip through restore", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()
		require.NoError(t, d.Assign(courierID, time.Now()))

		restored, err := delivery.RestoreDelivery(
			d.ID(), d.Number(), d.SenderID(), d.Pickup(), d.Dropoff(),
			d.Packages(), d.Kind(), d.Status(), d.Quote(), d.Courier(),
			d.PaymentStatus(), d.InstrumentRef(), d.OfferExpiresAt(),
			d.RebroadcastCount(), d.PickupProofURL(), d.DeliveryProofURL(),
			d.CreatedAt(), d.UpdatedAt(), d.Tracking())

		require.NoError(t, err)
		assert.True(t, restored.IsEqual(d))
		assert.Equal(t, d.Status(), restored.Status())
		assert.Equal(t, d.Number(), restored.Number())
		require.NotNil(t, restored.Courier())
	})

	t.Run("should reject a courier on a Requested delivery", func(t *testing.T) {
		d := newTestDelivery(t)
		courierID := kernel.NewUUID()

		_, err := delivery.RestoreDelivery(
			d.ID(), d.Number(), d.SenderID(), d.Pickup(), d.Dropoff(),
			d.Packages(), d.Kind(), delivery.Requested, d.Quote(), &courierID,
			d.PaymentStatus(), d.InstrumentRef(), d.OfferExpiresAt(),
			0, "", "", d.CreatedAt(), d.UpdatedAt(), d.Tracking())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject an assigned delivery without courier", func(t *testing.T) {
		d := newTestDelivery(t)

		_, err := delivery.RestoreDelivery(
			d.ID(), d.Number(), d.SenderID(), d.Pickup(), d.Dropoff(),
			d.Packages(), d.Kind(), delivery.CourierAssigned, d.Quote(), nil,
			d.PaymentStatus(), d.InstrumentRef(), d.OfferExpiresAt(),
			0, "", "", d.CreatedAt(), d.UpdatedAt(), d.Tracking())

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
