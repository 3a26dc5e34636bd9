// Package payment provides the settlement transaction entity. Only
// successful charges are recorded: a declined attempt leaves no row, so the
// transactions table holds at most one completed transaction per delivery.
package payment

import (
	"errors"
	"time"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

// ErrTransactionIsNotConstructed is returned when using an improperly
// initialized Transaction.
var ErrTransactionIsNotConstructed = errors.New("Transaction must be created via NewTransaction constructor")

// Transaction is the record of one successful settlement charge. It is
// immutable once written; a delivery has at most one, enforced by a unique
// index in the transactions table.
type Transaction struct {
	id         kernel.UUID
	deliveryID kernel.UUID
	amount     kernel.Money
	providerID string
	feeCents   int64
	receiptURL string
	chargedAt  time.Time
	guard      guard.ConstructorGuard
}

// NewTransaction records a successful charge of the given amount against
// the delivery. The provider ID is the gateway's reference for the charge.
func NewTransaction(
	id kernel.UUID,
	deliveryID kernel.UUID,
	amount kernel.Money,
	providerID string,
	feeCents int64,
	receiptURL string,
	chargedAt time.Time,
) (*Transaction, error) {
	txn := &Transaction{
		receiptURL: receiptURL,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		txn.setID(id),
		txn.setDeliveryID(deliveryID),
		txn.setAmount(amount),
		txn.setProviderID(providerID),
		txn.setFeeCents(feeCents),
		txn.setChargedAt(chargedAt),
	); err != nil {
		return nil, err
	}

	return txn, nil
}

// RestoreTransaction reconstructs a Transaction from persistent storage.
func RestoreTransaction(
	id kernel.UUID,
	deliveryID kernel.UUID,
	amount kernel.Money,
	providerID string,
	feeCents int64,
	receiptURL string,
	chargedAt time.Time,
) (*Transaction, error) {
	return NewTransaction(id, deliveryID, amount, providerID, feeCents, receiptURL, chargedAt)
}

// Validate checks if the Transaction was properly constructed.
func (t *Transaction) Validate() error {
	if t == nil {
		return ErrTransactionIsNotConstructed
	}
	return t.guard.Validate(ErrTransactionIsNotConstructed)
}

// ID returns the transaction's unique identifier.
func (t *Transaction) ID() kernel.UUID {
	return t.id
}

// DeliveryID returns the settled delivery's identifier.
func (t *Transaction) DeliveryID() kernel.UUID {
	return t.deliveryID
}

// Amount returns the charged amount.
func (t *Transaction) Amount() kernel.Money {
	return t.amount
}

// ProviderID returns the gateway's reference for the charge.
func (t *Transaction) ProviderID() string {
	return t.providerID
}

// FeeCents returns the gateway fee in cents.
func (t *Transaction) FeeCents() int64 {
	return t.feeCents
}

// ReceiptURL returns the gateway receipt reference, or "" when none was
// issued.
func (t *Transaction) ReceiptURL() string {
	return t.receiptURL
}

// ChargedAt returns the time the charge succeeded.
func (t *Transaction) ChargedAt() time.Time {
	return t.chargedAt
}

func (t *Transaction) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Transaction) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("delivery ID", err)
	}
	t.deliveryID = deliveryID
	return nil
}

func (t *Transaction) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if amount.IsZero() {
		return errs.NewValueIsRequiredError("charge amount")
	}
	t.amount = amount
	return nil
}

func (t *Transaction) setProviderID(providerID string) error {
	if providerID == "" {
		return errs.NewValueIsRequiredError("provider ID")
	}
	t.providerID = providerID
	return nil
}

func (t *Transaction) setFeeCents(feeCents int64) error {
	if feeCents < 0 {
		return errs.NewValueIsInvalidError("fee cents")
	}
	t.feeCents = feeCents
	return nil
}

func (t *Transaction) setChargedAt(chargedAt time.Time) error {
	if chargedAt.IsZero() {
		return errs.NewValueIsRequiredError("charged at")
	}
	t.chargedAt = chargedAt
	return nil
}
