package services

import (
	"math"
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/promo"
	"dropmarket/internal/pkg/errs"
)

// Tariff constants in cents. All pricing arithmetic stays in integer cents;
// the only float input is the route distance, fixed to tenths of a
// kilometer on entry.
const (
	baseFareCents = 250
	perKmCents    = 60

	handlingSmallCents  = 150
	handlingMediumCents = 250
	handlingLargeCents  = 400

	expressSurchargeCents  = 200
	prioritySurchargeCents = 500

	// fragileUpliftPercent raises the handling fee of fragile packages.
	fragileUpliftPercent = 50

	// insurancePercent of the declared value, charged per insured package.
	insurancePercent = 1
)

// RouteEstimate is the routing input of a quote. Degraded marks estimates
// fabricated by the routing fallback after a service failure; quotes priced
// from them carry the flag so settlement can recheck later.
type RouteEstimate struct {
	DistanceKm  float64
	DurationMin int
	Degraded    bool
}

// Pricer computes price quotes for deliveries. It is a pure domain service:
// identical inputs always produce an identical breakdown, and it never
// talks to the network - the caller supplies the route estimate and the
// resolved promo code.
//
// Tariff:
//   - base fare plus a per-kilometer fee, pro-rated to tenths of a km
//   - per-package handling fee by size class, +50% for fragile packages
//   - fixed surcharge for express and priority service levels
//   - deterministic surge on base+distance only, by requested hour
//   - insurance at 1% of declared value for insured packages
//   - promo discount last, capped at the pre-discount total
type Pricer struct{}

// NewPricer creates a new Pricer instance.
func NewPricer() Pricer {
	return Pricer{}
}

// Quote prices a delivery. The promo code is optional; pass nil when the
// sender supplied none. Promo rejections (inactive, outside window, below
// minimum) propagate as the promo package's typed errors so the caller can
// report why the code did not apply.
func (p Pricer) Quote(
	route RouteEstimate,
	packages []*delivery.Package,
	kind delivery.Kind,
	requestedAt time.Time,
	promoCode *promo.PromoCode,
) (delivery.Quote, error) {
	if route.DistanceKm <= 0 {
		return delivery.Quote{}, errs.NewValueIsInvalidError("route distance")
	}
	if len(packages) == 0 {
		return delivery.Quote{}, errs.NewValueIsRequiredError("packages")
	}
	if err := kind.Validate(); err != nil {
		return delivery.Quote{}, err
	}

	base, err := kernel.NewMoney(baseFareCents, kernel.DefaultCurrency)
	if err != nil {
		return delivery.Quote{}, err
	}

	distance, err := distanceFee(route.DistanceKm)
	if err != nil {
		return delivery.Quote{}, err
	}

	packageFee, insurance, err := packageFees(packages)
	if err != nil {
		return delivery.Quote{}, err
	}

	surcharge, err := kindSurcharge(kind)
	if err != nil {
		return delivery.Quote{}, err
	}

	surgeBasisPoints := surgeFor(requestedAt)

	discount, err := promoDiscount(
		promoCode, base, distance, packageFee, surcharge, insurance, surgeBasisPoints, requestedAt)
	if err != nil {
		return delivery.Quote{}, err
	}

	code := ""
	if promoCode != nil {
		code = promoCode.Code()
	}

	return delivery.NewQuote(
		base, distance, packageFee, surcharge, insurance, discount,
		surgeBasisPoints, route.DistanceKm, route.DurationMin, route.Degraded, code)
}

// surgeFor returns the surge multiplier in basis points for the requested
// hour. The table is deterministic: morning and evening rush hours carry
// the highest multipliers, lunch a small one.
func surgeFor(requestedAt time.Time) int64 {
	switch hour := requestedAt.Hour(); {
	case hour >= 7 && hour <= 9:
		return 12_500
	case hour >= 12 && hour <= 13:
		return 11_000
	case hour >= 17 && hour <= 19:
		return 14_500
	default:
		return 10_000
	}
}

// distanceFee pro-rates the per-km fee by the route distance fixed to
// tenths of a kilometer, rounding half up.
func distanceFee(distanceKm float64) (kernel.Money, error) {
	tenths := int64(math.Round(distanceKm * 10))
	cents := (perKmCents*tenths + 5) / 10
	return kernel.NewMoney(cents, kernel.DefaultCurrency)
}

// packageFees sums the handling and insurance fees over all packages.
func packageFees(packages []*delivery.Package) (kernel.Money, kernel.Money, error) {
	handlingTotal, err := kernel.NewMoney(0, kernel.DefaultCurrency)
	if err != nil {
		return kernel.Money{}, kernel.Money{}, err
	}
	insuranceTotal := handlingTotal

	for _, pkg := range packages {
		if err = pkg.Validate(); err != nil {
			return kernel.Money{}, kernel.Money{}, err
		}

		handling, err := handlingFee(pkg)
		if err != nil {
			return kernel.Money{}, kernel.Money{}, err
		}
		handlingTotal, err = handlingTotal.Add(handling)
		if err != nil {
			return kernel.Money{}, kernel.Money{}, err
		}

		if !pkg.Insured() {
			continue
		}
		premium, err := pkg.DeclaredValue().MulRatio(insurancePercent, 100)
		if err != nil {
			return kernel.Money{}, kernel.Money{}, err
		}
		insuranceTotal, err = insuranceTotal.Add(premium)
		if err != nil {
			return kernel.Money{}, kernel.Money{}, err
		}
	}

	return handlingTotal, insuranceTotal, nil
}

func handlingFee(pkg *delivery.Package) (kernel.Money, error) {
	var cents int64
	switch pkg.Size() {
	case delivery.SizeSmall:
		cents = handlingSmallCents
	case delivery.SizeMedium:
		cents = handlingMediumCents
	case delivery.SizeLarge:
		cents = handlingLargeCents
	default:
		return kernel.Money{}, errs.NewValueIsInvalidError("size class")
	}

	fee, err := kernel.NewMoney(cents, kernel.DefaultCurrency)
	if err != nil {
		return kernel.Money{}, err
	}

	if pkg.Fragile() {
		return fee.MulRatio(100+fragileUpliftPercent, 100)
	}
	return fee, nil
}

func kindSurcharge(kind delivery.Kind) (kernel.Money, error) {
	var cents int64
	switch kind {
	case delivery.KindExpress:
		cents = expressSurchargeCents
	case delivery.KindPriority:
		cents = prioritySurchargeCents
	case delivery.KindStandard:
		cents = 0
	default:
		return kernel.Money{}, errs.NewValueIsInvalidError("delivery kind")
	}
	return kernel.NewMoney(cents, kernel.DefaultCurrency)
}

// promoDiscount computes the discount against the pre-discount total, which
// requires re-deriving the surged subtotal the same way the quote does.
func promoDiscount(
	promoCode *promo.PromoCode,
	base, distance, packageFee, surcharge, insurance kernel.Money,
	surgeBasisPoints int64,
	requestedAt time.Time,
) (kernel.Money, error) {
	if promoCode == nil {
		return kernel.NewMoney(0, kernel.DefaultCurrency)
	}

	surgeable, err := base.Add(distance)
	if err != nil {
		return kernel.Money{}, err
	}
	surged, err := surgeable.MulRatio(surgeBasisPoints, 10_000)
	if err != nil {
		return kernel.Money{}, err
	}

	preDiscount := surged
	for _, component := range []kernel.Money{packageFee, surcharge, insurance} {
		preDiscount, err = preDiscount.Add(component)
		if err != nil {
			return kernel.Money{}, err
		}
	}

	discount, err := promoCode.DiscountFor(preDiscount, requestedAt)
	if err != nil {
		return kernel.Money{}, err
	}
	return discount.Min(preDiscount)
}
