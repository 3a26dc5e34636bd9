package ports

import (
	"context"
	"fmt"
)

// ChargeRequest describes one settlement charge. InstrumentRef is the
// opaque token supplied at delivery creation; it is forwarded verbatim and
// must never be logged.
type ChargeRequest struct {
	AmountCents   int64
	Currency      string
	InstrumentRef string
	Metadata      map[string]string
}

// ChargeResult is the gateway's record of a successful charge.
type ChargeResult struct {
	ProviderID string
	Status     string
	FeeCents   int64
	ReceiptURL string
}

// DeclineError reports that the gateway refused the charge. Declines are
// not infrastructure failures: the caller surfaces them verbatim and leaves
// the payment state untouched so the charge can be retried.
type DeclineError struct {
	Code    string
	Message string
}

func (e *DeclineError) Error() string {
	return fmt.Sprintf("payment declined: %s (%s)", e.Message, e.Code)
}

// PaymentGateway charges payment instruments. Implementations distinguish
// declines (*DeclineError) from transport failures
// (errs.ExternalDependencyError).
type PaymentGateway interface {
	Charge(ctx context.Context, request ChargeRequest) (ChargeResult, error)
}
