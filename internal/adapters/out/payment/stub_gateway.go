package payment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"dropmarket/internal/core/ports"

	"github.com/google/uuid"
)

// declinePrefix marks instrument references the stub refuses, so local
// setups can exercise the decline path without a provider.
const declinePrefix = "tok_decline"

// StubGateway is an in-memory gateway for tests and local development.
// Every charge succeeds unless the instrument reference carries the decline
// prefix.
type StubGateway struct {
	mu      sync.Mutex
	charges []ports.ChargeRequest
}

// NewStubGateway creates an empty stub gateway.
func NewStubGateway() *StubGateway {
	return &StubGateway{}
}

// Charge records the request and fabricates a provider response.
func (g *StubGateway) Charge(_ context.Context, request ports.ChargeRequest) (ports.ChargeResult, error) {
	if strings.HasPrefix(request.InstrumentRef, declinePrefix) {
		return ports.ChargeResult{}, &ports.DeclineError{
			Code:    "card_declined",
			Message: "insufficient funds",
		}
	}

	g.mu.Lock()
	g.charges = append(g.charges, request)
	g.mu.Unlock()

	providerID := "stub_" + uuid.NewString()
	return ports.ChargeResult{
		ProviderID: providerID,
		Status:     "succeeded",
		FeeCents:   request.AmountCents * 2 / 100,
		ReceiptURL: fmt.Sprintf("https://receipts.invalid/%s", providerID),
	}, nil
}

// Charges returns a copy of every successful charge so far.
func (g *StubGateway) Charges() []ports.ChargeRequest {
	g.mu.Lock()
	defer g.mu.Unlock()

	charges := make([]ports.ChargeRequest, len(g.charges))
	copy(charges, g.charges)
	return charges
}
