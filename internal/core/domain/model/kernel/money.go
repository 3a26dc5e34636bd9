package kernel

import (
	"errors"
	"fmt"

	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency assumed when callers do not specify one.
const DefaultCurrency = "USD"

// Money domain errors.
var (
	// ErrMoneyIsNotConstructed is returned when attempting to use an improperly
	// initialized Money. Money must be created via NewMoney.
	ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
		"money must be created via NewMoney constructor")
	// ErrCurrencyMismatch is returned when arithmetic combines amounts in
	// different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrNegativeAmount is returned when an operation would produce a negative
	// monetary amount.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// Money represents a non-negative monetary amount in integer minor units
// (cents) with an ISO 4217 currency code. All pricing and settlement
// arithmetic in the system is performed on Money so that repeated
// recomputation never drifts through floating-point rounding.
//
// Money is an immutable value object. The zero value is invalid and fails
// validation - use the constructor to create instances.
//
// Example:
//
//	price, err := kernel.NewMoney(1250, kernel.DefaultCurrency)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(price) // Output: 12.50 USD
type Money struct { //nolint:recvcheck //using for validation
	amountCents int64
	currency    string
	guard       guard.ConstructorGuard
}

// NewMoney creates a Money value of amountCents minor units in the given
// currency. The amount must be non-negative and the currency must be a
// three-letter uppercase code. Returns a validation error otherwise.
func NewMoney(amountCents int64, currency string) (Money, error) {
	money := Money{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(money.setAmountCents(amountCents), money.setCurrency(currency)); err != nil {
		return Money{}, err
	}

	return money, nil
}

// Validate checks if the Money was properly constructed via NewMoney.
// The zero value of Money is invalid and fails this validation.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// AmountCents returns the amount in integer minor units.
func (m Money) AmountCents() int64 {
	return m.amountCents
}

// Currency returns the three-letter currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amountCents == 0
}

// String returns a human-readable representation in the form "12.50 USD".
// Implements fmt.Stringer.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.amountCents/100, m.amountCents%100, m.currency)
}

// IsEqual compares two monetary values for exact amount and currency equality.
func (m Money) IsEqual(other Money) bool {
	return m.amountCents == other.amountCents && m.currency == other.currency
}

// Add returns the sum of two monetary values.
// Both values must be properly constructed and share the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return Money{}, err
	}
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}

	return NewMoney(m.amountCents+other.amountCents, m.currency)
}

// Sub returns the difference of two monetary values. The result must not be
// negative; callers clamp discounts against the total before subtracting.
func (m Money) Sub(other Money) (Money, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return Money{}, err
	}
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	if other.amountCents > m.amountCents {
		return Money{}, fmt.Errorf("%w: %d - %d", ErrNegativeAmount, m.amountCents, other.amountCents)
	}

	return NewMoney(m.amountCents-other.amountCents, m.currency)
}

// MulRatio scales the amount by num/den using integer fixed-point arithmetic,
// rounding half up. It is used for surge multipliers (basis points over
// 10000) and percentage discounts, keeping repeated recomputation exact.
//
// Example:
//
//	base, _ := kernel.NewMoney(1000, kernel.DefaultCurrency)
//	surged, _ := base.MulRatio(12500, 10000) // 12.50 USD
func (m Money) MulRatio(num int64, den int64) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if num < 0 || den <= 0 {
		return Money{}, errs.NewValueIsInvalidError("ratio must be non-negative with a positive denominator")
	}

	scaled := (m.amountCents*num + den/2) / den
	return NewMoney(scaled, m.currency)
}

// Min returns the smaller of two monetary values in the same currency.
func (m Money) Min(other Money) (Money, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return Money{}, err
	}
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}

	if other.amountCents < m.amountCents {
		return other, nil
	}
	return m, nil
}

// Decimal converts the amount to a decimal with two fraction digits.
// Used by gateway adapters that format amounts as decimal strings on the wire.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amountCents, -2)
}

// setAmountCents sets the amount with validation.
// Note: We intentionally use a pointer receiver here while other methods use
// value receivers, so these private setters can self-encapsulate validation
// during object construction.
func (m *Money) setAmountCents(amountCents int64) error {
	if amountCents < 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", amountCents))
	}

	m.amountCents = amountCents
	return nil
}

// setCurrency sets the currency code with validation.
func (m *Money) setCurrency(currency string) error {
	if len(currency) != 3 {
		return errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a three-letter code", currency))
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return errs.NewValueIsInvalidErrorWithCause("currency",
				fmt.Errorf("%q is not uppercase", currency))
		}
	}

	m.currency = currency
	return nil
}
