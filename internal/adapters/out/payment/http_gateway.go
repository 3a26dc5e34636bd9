// Package payment adapts the external payment provider. The HTTP gateway
// speaks the provider's JSON charge API; the stub gateway serves tests and
// local development. Instrument references pass through both untouched and
// are never written to a log line.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/backoff"
	"dropmarket/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const serviceName = "payment"

// HTTPGateway charges instruments through the provider's REST API.
// Declines (402) surface as *ports.DeclineError and are never retried;
// transport failures and 5xx are retried per the policy and surface as
// retryable external dependency errors.
type HTTPGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	policy     backoff.Policy
	logger     *slog.Logger
}

// NewHTTPGateway creates a gateway client for the provider at baseURL.
func NewHTTPGateway(baseURL string, apiKey string, timeout time.Duration, policy backoff.Policy, logger *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		policy:     policy,
		logger:     logger.With("component", "payment_gateway"),
	}
}

// chargeBody is the provider's charge request. Amounts travel as decimal
// strings in major units.
type chargeBody struct {
	Amount     string            `json:"amount"`
	Currency   string            `json:"currency"`
	Instrument string            `json:"instrument"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type chargeResponseBody struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Fee        string `json:"fee"`
	ReceiptURL string `json:"receipt_url"`
}

type declineBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Charge attempts to charge the instrument once. The retry loop only covers
// failures where the provider provably did not accept the charge.
func (g *HTTPGateway) Charge(ctx context.Context, request ports.ChargeRequest) (ports.ChargeResult, error) {
	body, err := json.Marshal(chargeBody{
		Amount:     decimal.New(request.AmountCents, -2).StringFixed(2),
		Currency:   request.Currency,
		Instrument: request.InstrumentRef,
		Metadata:   request.Metadata,
	})
	if err != nil {
		return ports.ChargeResult{}, err
	}

	var lastErr error
	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		result, chargeErr := g.chargeOnce(ctx, body)
		if chargeErr == nil {
			return result, nil
		}
		lastErr = chargeErr

		var depErr *errs.ExternalDependencyError
		retryable := errors.As(chargeErr, &depErr) && depErr.Retryable
		if ctx.Err() != nil || attempt == g.policy.MaxAttempts || !retryable {
			break
		}

		delay := g.policy.Delay(attempt)
		g.logger.WarnContext(ctx, "Payment gateway retry",
			"attempt", attempt, "delay", delay, "error", chargeErr)
		if !backoff.Sleep(ctx, delay) {
			break
		}
	}

	return ports.ChargeResult{}, lastErr
}

func (g *HTTPGateway) chargeOnce(ctx context.Context, body []byte) (ports.ChargeResult, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return ports.ChargeResult{}, err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+g.apiKey)

	response, err := g.httpClient.Do(request)
	if err != nil {
		return ports.ChargeResult{}, errs.NewExternalDependencyErrorWithCause(serviceName, true, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}()

	switch {
	case response.StatusCode == http.StatusOK || response.StatusCode == http.StatusCreated:
		return decodeChargeResult(response.Body)
	case response.StatusCode == http.StatusPaymentRequired:
		return ports.ChargeResult{}, decodeDecline(response.Body)
	case response.StatusCode >= http.StatusInternalServerError:
		return ports.ChargeResult{}, errs.NewExternalDependencyErrorWithCause(serviceName, true,
			fmt.Errorf("payment provider returned %d", response.StatusCode))
	default:
		return ports.ChargeResult{}, errs.NewExternalDependencyErrorWithCause(serviceName, false,
			fmt.Errorf("payment provider returned %d", response.StatusCode))
	}
}

func decodeChargeResult(body io.Reader) (ports.ChargeResult, error) {
	var decoded chargeResponseBody
	if err := json.NewDecoder(body).Decode(&decoded); err != nil {
		return ports.ChargeResult{}, errs.NewExternalDependencyErrorWithCause(serviceName, false, err)
	}

	feeCents := int64(0)
	if decoded.Fee != "" {
		fee, err := decimal.NewFromString(decoded.Fee)
		if err != nil {
			return ports.ChargeResult{}, errs.NewExternalDependencyErrorWithCause(serviceName, false, err)
		}
		feeCents = fee.Mul(decimal.NewFromInt(100)).IntPart()
	}

	return ports.ChargeResult{
		ProviderID: decoded.ID,
		Status:     decoded.Status,
		FeeCents:   feeCents,
		ReceiptURL: decoded.ReceiptURL,
	}, nil
}

func decodeDecline(body io.Reader) error {
	decoded := declineBody{Code: "card_declined", Message: "payment declined"}
	_ = json.NewDecoder(body).Decode(&decoded)

	return &ports.DeclineError{
		Code:    decoded.Code,
		Message: decoded.Message,
	}
}
