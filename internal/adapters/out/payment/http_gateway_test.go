package payment_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"dropmarket/internal/adapters/out/payment"
	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/backoff"
	"dropmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() backoff.Policy {
	return backoff.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond,
	}
}

func chargeRequest() ports.ChargeRequest {
	return ports.ChargeRequest{
		AmountCents:   1234,
		Currency:      "USD",
		InstrumentRef: "tok_4242",
		Metadata:      map[string]string{"delivery_id": "d1"},
	}
}

func TestHTTPGateway_SuccessfulCharge(t *testing.T) {
	var requestBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &requestBody))

		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": "ch_123",
			"status": "succeeded",
			"fee": "0.36",
			"receipt_url": "https://receipts/ch_123"
		}`))
	}))
	defer server.Close()

	gateway := payment.NewHTTPGateway(server.URL, "sk_test", time.Second, testPolicy(), slog.New(slog.DiscardHandler))

	result, err := gateway.Charge(t.Context(), chargeRequest())
	require.NoError(t, err)

	assert.Equal(t, "ch_123", result.ProviderID)
	assert.Equal(t, "succeeded", result.Status)
	assert.Equal(t, int64(36), result.FeeCents)
	assert.Equal(t, "https://receipts/ch_123", result.ReceiptURL)

	// Amounts travel as decimal strings in major units, cents never round
	// through floats on the way.
	assert.Equal(t, "12.34", requestBody["amount"])
	assert.Equal(t, "USD", requestBody["currency"])
	assert.Equal(t, "tok_4242", requestBody["instrument"])
}

func TestHTTPGateway_DeclineIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"code": "insufficient_funds", "message": "card has insufficient funds"}`))
	}))
	defer server.Close()

	gateway := payment.NewHTTPGateway(server.URL, "sk_test", time.Second, testPolicy(), slog.New(slog.DiscardHandler))

	_, err := gateway.Charge(t.Context(), chargeRequest())

	var decline *ports.DeclineError
	require.ErrorAs(t, err, &decline)
	assert.Equal(t, "insufficient_funds", decline.Code)
	assert.Equal(t, "card has insufficient funds", decline.Message)
	assert.Equal(t, int32(1), calls.Load(), "declines are final, not retryable")
}

func TestHTTPGateway_ServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"id": "ch_retry", "status": "succeeded", "fee": "0"}`))
	}))
	defer server.Close()

	gateway := payment.NewHTTPGateway(server.URL, "sk_test", time.Second, testPolicy(), slog.New(slog.DiscardHandler))

	result, err := gateway.Charge(t.Context(), chargeRequest())
	require.NoError(t, err)

	assert.Equal(t, "ch_retry", result.ProviderID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPGateway_ExhaustedRetriesSurfaceRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gateway := payment.NewHTTPGateway(server.URL, "sk_test", time.Second, testPolicy(), slog.New(slog.DiscardHandler))

	_, err := gateway.Charge(t.Context(), chargeRequest())

	var depErr *errs.ExternalDependencyError
	require.ErrorAs(t, err, &depErr)
	assert.True(t, depErr.Retryable)
}

func TestStubGateway_ChargeAndDecline(t *testing.T) {
	gateway := payment.NewStubGateway()

	result, err := gateway.Charge(t.Context(), chargeRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.ProviderID)
	assert.Equal(t, "succeeded", result.Status)
	assert.Len(t, gateway.Charges(), 1)

	declined := chargeRequest()
	declined.InstrumentRef = "tok_decline_0001"
	_, err = gateway.Charge(t.Context(), declined)

	var decline *ports.DeclineError
	require.ErrorAs(t, err, &decline)
	assert.Len(t, gateway.Charges(), 1)
}
