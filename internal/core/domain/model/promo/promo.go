package promo

import (
	"errors"
	"time"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

// Typed rejections returned by DiscountFor. A rejected code fails the
// quote; callers branch on these to tell the sender which rule the code
// broke.
var (
	// ErrPromoInactive means the code was switched off.
	ErrPromoInactive = errors.New("promo code is inactive")
	// ErrPromoOutsideWindow means the requested time falls outside the
	// code's active window.
	ErrPromoOutsideWindow = errors.New("promo code is outside its active window")
	// ErrPromoBelowMinimum means the order total does not reach the code's
	// minimum.
	ErrPromoBelowMinimum = errors.New("order total is below the promo code minimum")
)

// ErrPromoCodeIsNotConstructed is returned when using an improperly
// initialized PromoCode.
var ErrPromoCodeIsNotConstructed = errors.New("PromoCode must be created via NewPromoCode constructor")

// PromoCode is a discount rule: either a percentage of the total capped at
// a maximum amount, or a fixed amount, never both. The code applies only
// while active, inside its [from, until] window, and when the order total
// reaches the minimum.
//
// Single use per delivery is not enforced here - the promo repository
// records usage idempotently per (code, delivery).
type PromoCode struct {
	code        string
	percent     int
	fixedAmount kernel.Money
	maxDiscount kernel.Money
	minTotal    kernel.Money
	activeFrom  time.Time
	activeUntil time.Time
	active      bool
	guard       guard.ConstructorGuard
}

// NewPercentPromoCode creates a percentage discount code capped at
// maxDiscount.
func NewPercentPromoCode(
	code string,
	percent int,
	maxDiscount kernel.Money,
	minTotal kernel.Money,
	activeFrom time.Time,
	activeUntil time.Time,
	active bool,
) (*PromoCode, error) {
	promo := &PromoCode{
		percent: percent,
		active:  active,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		promo.setCode(code),
		promo.setPercent(percent),
		promo.setMaxDiscount(maxDiscount),
		promo.setMinTotal(minTotal),
		promo.setWindow(activeFrom, activeUntil),
	); err != nil {
		return nil, err
	}

	return promo, nil
}

// NewFixedPromoCode creates a fixed-amount discount code.
func NewFixedPromoCode(
	code string,
	fixedAmount kernel.Money,
	minTotal kernel.Money,
	activeFrom time.Time,
	activeUntil time.Time,
	active bool,
) (*PromoCode, error) {
	promo := &PromoCode{
		active: active,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		promo.setCode(code),
		promo.setFixedAmount(fixedAmount),
		promo.setMinTotal(minTotal),
		promo.setWindow(activeFrom, activeUntil),
	); err != nil {
		return nil, err
	}

	return promo, nil
}

// RestorePromoCode reconstructs a PromoCode from persistent storage.
// Exactly one of percent and fixedAmount must be set; a percent code
// carries a non-zero percent and a valid maxDiscount, a fixed code carries
// a valid fixedAmount.
func RestorePromoCode(
	code string,
	percent int,
	fixedAmount kernel.Money,
	maxDiscount kernel.Money,
	minTotal kernel.Money,
	activeFrom time.Time,
	activeUntil time.Time,
	active bool,
) (*PromoCode, error) {
	if percent > 0 {
		return NewPercentPromoCode(code, percent, maxDiscount, minTotal, activeFrom, activeUntil, active)
	}
	return NewFixedPromoCode(code, fixedAmount, minTotal, activeFrom, activeUntil, active)
}

// Validate checks if the PromoCode was properly constructed via a factory.
func (p *PromoCode) Validate() error {
	if p == nil {
		return ErrPromoCodeIsNotConstructed
	}
	return p.guard.Validate(ErrPromoCodeIsNotConstructed)
}

// Code returns the promo code string.
func (p *PromoCode) Code() string {
	return p.code
}

// Percent returns the discount percentage, or 0 for fixed-amount codes.
func (p *PromoCode) Percent() int {
	return p.percent
}

// IsPercent reports whether the code is a percentage discount.
func (p *PromoCode) IsPercent() bool {
	return p.percent > 0
}

// FixedAmount returns the fixed discount, meaningful only for fixed codes.
func (p *PromoCode) FixedAmount() kernel.Money {
	return p.fixedAmount
}

// MaxDiscount returns the cap of a percentage discount, meaningful only for
// percent codes.
func (p *PromoCode) MaxDiscount() kernel.Money {
	return p.maxDiscount
}

// MinTotal returns the minimum pre-discount total the code applies to.
func (p *PromoCode) MinTotal() kernel.Money {
	return p.minTotal
}

// ActiveFrom returns the start of the active window.
func (p *PromoCode) ActiveFrom() time.Time {
	return p.activeFrom
}

// ActiveUntil returns the end of the active window.
func (p *PromoCode) ActiveUntil() time.Time {
	return p.activeUntil
}

// IsActive reports whether the code is switched on.
func (p *PromoCode) IsActive() bool {
	return p.active
}

// DiscountFor computes the discount the code grants on the given
// pre-discount total at the given time. The discount never exceeds the
// total. Rejections come back as the package's typed sentinel errors.
func (p *PromoCode) DiscountFor(total kernel.Money, at time.Time) (kernel.Money, error) {
	if err := total.Validate(); err != nil {
		return kernel.Money{}, err
	}

	if !p.active {
		return kernel.Money{}, ErrPromoInactive
	}
	if at.Before(p.activeFrom) || at.After(p.activeUntil) {
		return kernel.Money{}, ErrPromoOutsideWindow
	}
	if total.AmountCents() < p.minTotal.AmountCents() {
		return kernel.Money{}, ErrPromoBelowMinimum
	}

	if p.IsPercent() {
		discount, err := total.MulRatio(int64(p.percent), 100)
		if err != nil {
			return kernel.Money{}, err
		}
		return discount.Min(p.maxDiscount)
	}

	return p.fixedAmount.Min(total)
}

func (p *PromoCode) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("promo code")
	}
	p.code = code
	return nil
}

func (p *PromoCode) setPercent(percent int) error {
	if percent < 1 || percent > 100 {
		return errs.NewValueIsOutOfRangeError("percent", percent, 1, 100)
	}
	p.percent = percent
	return nil
}

func (p *PromoCode) setFixedAmount(fixedAmount kernel.Money) error {
	if err := fixedAmount.Validate(); err != nil {
		return err
	}
	if fixedAmount.IsZero() {
		return errs.NewValueIsRequiredError("fixed discount amount")
	}
	p.fixedAmount = fixedAmount
	return nil
}

func (p *PromoCode) setMaxDiscount(maxDiscount kernel.Money) error {
	if err := maxDiscount.Validate(); err != nil {
		return err
	}
	if maxDiscount.IsZero() {
		return errs.NewValueIsRequiredError("max discount")
	}
	p.maxDiscount = maxDiscount
	return nil
}

func (p *PromoCode) setMinTotal(minTotal kernel.Money) error {
	if err := minTotal.Validate(); err != nil {
		return err
	}
	p.minTotal = minTotal
	return nil
}

func (p *PromoCode) setWindow(from time.Time, until time.Time) error {
	if from.IsZero() || until.IsZero() {
		return errs.NewValueIsRequiredError("active window")
	}
	if !until.After(from) {
		return errs.NewValueIsInvalidError("active window")
	}
	p.activeFrom = from
	p.activeUntil = until
	return nil
}
