package commands_test

import (
	"testing"
	"time"

	"dropmarket/internal/core/domain/model/courier"
	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"

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

// newRequestedDelivery builds a freshly created delivery with its pickup near
// the test couriers.
func newRequestedDelivery(t *testing.T, senderID kernel.UUID) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(
		kernel.NewUUID(),
		senderID,
		mustAddress(t, "12 Baker St", 40.7128, -74.0060),
		mustAddress(t, "90 Church St", 40.7484, -73.9857),
		[]*delivery.Package{mustPackage(t)},
		delivery.KindStandard,
		mustQuote(t),
		"tok_4242",
		5*time.Minute,
		time.Now(),
	)
	require.NoError(t, err)
	return d
}

// newDeliveredDelivery walks a fresh delivery through the full lifecycle so
// settlement and review tests start from the delivered state.
func newDeliveredDelivery(t *testing.T, senderID, courierID kernel.UUID) *delivery.Delivery {
	t.Helper()
	d := newRequestedDelivery(t, senderID)
	require.NoError(t, d.Assign(courierID, time.Now()))
	require.NoError(t, d.MarkPickedUp(courierID, "https://photos/pickup.jpg", mustPoint(t, 40.7128, -74.0060), time.Now()))
	require.NoError(t, d.MarkDelivered(courierID, "https://photos/drop.jpg", mustPoint(t, 40.7484, -73.9857), time.Now()))
	return d
}

// newApprovedCourier builds an online approved courier working the same area
// as the test deliveries.
func newApprovedCourier(t *testing.T, id kernel.UUID) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(id, "Jane Smith", "+15550100", 3, 50, mustPoint(t, 40.7138, -74.0050))
	require.NoError(t, err)
	require.NoError(t, c.Approve())
	require.NoError(t, c.SetAvailability(true))
	return c
}
