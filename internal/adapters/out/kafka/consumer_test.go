package kafka

import (
	"testing"
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandFromMessage_ValidOrder(t *testing.T) {
	orderID := kernel.NewUUID()
	senderID := kernel.NewUUID()
	body := []byte(`{
		"order_id": "` + orderID.String() + `",
		"sender_id": "` + senderID.String() + `",
		"pickup_street": "1 Main St",
		"dropoff_street": "2 Broad St",
		"kind": "express",
		"promo_code": "SPRING10",
		"instrument_ref": "tok_4242",
		"requested_at": "2026-08-29T08:30:00Z",
		"packages": [
			{"size": "small", "weight_grams": 1500, "declared_value_cents": 2000, "fragile": true, "insured": true}
		]
	}`)

	cmd, err := commandFromMessage(body)
	require.NoError(t, err)

	assert.True(t, cmd.DeliveryID().IsEqual(orderID))
	assert.True(t, cmd.SenderID().IsEqual(senderID))
	assert.Equal(t, "1 Main St", cmd.PickupStreet())
	assert.Equal(t, "2 Broad St", cmd.DropoffStreet())
	assert.Equal(t, delivery.KindExpress, cmd.Kind())
	assert.Equal(t, "SPRING10", cmd.PromoCode())
	assert.Equal(t, "tok_4242", cmd.InstrumentRef())
	assert.Equal(t, time.Date(2026, 8, 29, 8, 30, 0, 0, time.UTC), cmd.RequestedAt().UTC())

	require.Len(t, cmd.Packages(), 1)
	assert.Equal(t, delivery.SizeSmall, cmd.Packages()[0].Size)
	assert.Equal(t, 1500, cmd.Packages()[0].WeightGrams)
	assert.True(t, cmd.Packages()[0].Fragile)
	assert.True(t, cmd.Packages()[0].Insured)
}

func TestCommandFromMessage_GeneratesDeliveryIDWhenAbsent(t *testing.T) {
	senderID := kernel.NewUUID()
	body := []byte(`{
		"sender_id": "` + senderID.String() + `",
		"pickup_street": "1 Main St",
		"dropoff_street": "2 Broad St",
		"kind": "standard",
		"instrument_ref": "tok_4242",
		"packages": [{"size": "medium", "weight_grams": 3000, "declared_value_cents": 0}]
	}`)

	cmd, err := commandFromMessage(body)
	require.NoError(t, err)

	assert.NoError(t, cmd.DeliveryID().Validate())
	assert.False(t, cmd.RequestedAt().IsZero())
}

func TestCommandFromMessage_Invalid(t *testing.T) {
	senderID := kernel.NewUUID()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"sender_id": `},
		{name: "bad sender id", body: `{"sender_id": "nope", "pickup_street": "a", "dropoff_street": "b",
			"kind": "standard", "instrument_ref": "tok", "packages": [{"size": "small", "weight_grams": 1}]}`},
		{name: "unknown kind", body: `{"sender_id": "` + senderID.String() + `", "pickup_street": "a",
			"dropoff_street": "b", "kind": "teleport", "instrument_ref": "tok",
			"packages": [{"size": "small", "weight_grams": 1}]}`},
		{name: "unknown size class", body: `{"sender_id": "` + senderID.String() + `", "pickup_street": "a",
			"dropoff_street": "b", "kind": "standard", "instrument_ref": "tok",
			"packages": [{"size": "gigantic", "weight_grams": 1}]}`},
		{name: "no packages", body: `{"sender_id": "` + senderID.String() + `", "pickup_street": "a",
			"dropoff_street": "b", "kind": "standard", "instrument_ref": "tok", "packages": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commandFromMessage([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}
