package delivery

import (
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

// Surge multiplier bounds in basis points: [1.0, 1.5).
const (
	MinSurgeBasisPoints = 10_000
	MaxSurgeBasisPoints = 15_000
)

// ErrQuoteIsNotConstructed is returned when using an improperly initialized
// Quote. Quotes must be created via NewQuote.
var ErrQuoteIsNotConstructed = errs.NewValueIsRequiredError(
	"quote must be created via NewQuote constructor")

// Quote is the itemized price breakdown of a delivery. The total is derived
// inside the constructor and always satisfies
//
//	total = surge(base + distance) + package + priority + insurance - discount
//
// where the surge multiplier applies to the base and distance components
// only, never to surcharges. The Degraded flag marks quotes priced from a
// synthetic route estimate after a routing-service failure, so settlement
// can recompute and verify later.
//
// Quote is an immutable value object; recomputing it from the same inputs
// always yields the same breakdown.
type Quote struct { //nolint:recvcheck //using for validation
	base              kernel.Money
	distance          kernel.Money
	packageFee        kernel.Money
	prioritySurcharge kernel.Money
	insurance         kernel.Money
	discount          kernel.Money
	total             kernel.Money
	surgeBasisPoints  int64
	distanceKm        float64
	durationMin       int
	degraded          bool
	promoCode         string
	guard             guard.ConstructorGuard
}

// NewQuote assembles a Quote from its priced components and derives the
// total. The discount must not exceed the pre-discount total; the pricing
// engine caps it before constructing the quote.
func NewQuote(
	base kernel.Money,
	distance kernel.Money,
	packageFee kernel.Money,
	prioritySurcharge kernel.Money,
	insurance kernel.Money,
	discount kernel.Money,
	surgeBasisPoints int64,
	distanceKm float64,
	durationMin int,
	degraded bool,
	promoCode string,
) (Quote, error) {
	if err := errors.Join(
		base.Validate(),
		distance.Validate(),
		packageFee.Validate(),
		prioritySurcharge.Validate(),
		insurance.Validate(),
		discount.Validate(),
	); err != nil {
		return Quote{}, err
	}

	if surgeBasisPoints < MinSurgeBasisPoints || surgeBasisPoints >= MaxSurgeBasisPoints {
		return Quote{}, errs.NewValueIsOutOfRangeError("surge_basis_points",
			surgeBasisPoints, MinSurgeBasisPoints, MaxSurgeBasisPoints-1)
	}
	if distanceKm < 0 {
		return Quote{}, errs.NewValueIsInvalidError("distance_km")
	}
	if durationMin < 0 {
		return Quote{}, errs.NewValueIsInvalidError("duration_min")
	}

	total, err := deriveTotal(base, distance, packageFee, prioritySurcharge, insurance, discount, surgeBasisPoints)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		base:              base,
		distance:          distance,
		packageFee:        packageFee,
		prioritySurcharge: prioritySurcharge,
		insurance:         insurance,
		discount:          discount,
		total:             total,
		surgeBasisPoints:  surgeBasisPoints,
		distanceKm:        distanceKm,
		durationMin:       durationMin,
		degraded:          degraded,
		promoCode:         promoCode,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// deriveTotal applies the surge multiplier to base+distance, adds the
// surcharges, and subtracts the discount.
func deriveTotal(
	base, distance, packageFee, prioritySurcharge, insurance, discount kernel.Money,
	surgeBasisPoints int64,
) (kernel.Money, error) {
	surgeable, err := base.Add(distance)
	if err != nil {
		return kernel.Money{}, err
	}

	surged, err := surgeable.MulRatio(surgeBasisPoints, 10_000)
	if err != nil {
		return kernel.Money{}, err
	}

	total := surged
	for _, component := range []kernel.Money{packageFee, prioritySurcharge, insurance} {
		total, err = total.Add(component)
		if err != nil {
			return kernel.Money{}, err
		}
	}

	return total.Sub(discount)
}

// Validate checks if the Quote was properly constructed via NewQuote.
func (q Quote) Validate() error {
	return q.guard.Validate(ErrQuoteIsNotConstructed)
}

// Base returns the fixed base price component.
func (q Quote) Base() kernel.Money {
	return q.base
}

// Distance returns the per-kilometer price component.
func (q Quote) Distance() kernel.Money {
	return q.distance
}

// PackageFee returns the summed per-package handling fees.
func (q Quote) PackageFee() kernel.Money {
	return q.packageFee
}

// PrioritySurcharge returns the service-level surcharge.
func (q Quote) PrioritySurcharge() kernel.Money {
	return q.prioritySurcharge
}

// Insurance returns the summed insurance cost of insured packages.
func (q Quote) Insurance() kernel.Money {
	return q.insurance
}

// Discount returns the applied promo discount.
func (q Quote) Discount() kernel.Money {
	return q.discount
}

// Total returns the derived total price.
func (q Quote) Total() kernel.Money {
	return q.total
}

// SurgeBasisPoints returns the surge multiplier in basis points.
func (q Quote) SurgeBasisPoints() int64 {
	return q.surgeBasisPoints
}

// DistanceKm returns the route distance the quote was priced from.
func (q Quote) DistanceKm() float64 {
	return q.distanceKm
}

// DurationMin returns the estimated route duration in minutes.
func (q Quote) DurationMin() int {
	return q.durationMin
}

// Degraded reports whether the quote was priced from a synthetic route
// estimate after a routing-service failure.
func (q Quote) Degraded() bool {
	return q.degraded
}

// PromoCode returns the applied promo code, or "" when none was applied.
func (q Quote) PromoCode() string {
	return q.promoCode
}
