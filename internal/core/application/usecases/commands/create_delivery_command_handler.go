package commands

import (
	"context"
	"errors"
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/promo"
	"dropmarket/internal/core/domain/services"
	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/errs"
)

// offerWindow is how long couriers get to accept a fresh offer before the
// expiry sweep re-broadcasts it.
const offerWindow = 5 * time.Minute

// CreateDeliveryCommandHandler handles the business logic for delivery
// creation: geocoding both addresses, pricing the quote and persisting the
// aggregate with its packages and the initial tracking record atomically.
// After commit the offer goes out to couriers as a bid.opened broadcast.
type CreateDeliveryCommandHandler struct {
	uowFactory CreationUoWFactory
	planner    ports.RoutePlanner
	pricer     services.Pricer
	publisher  ports.EventPublisher
}

// NewCreateDeliveryCommandHandler creates a handler for delivery creation.
func NewCreateDeliveryCommandHandler(
	uowFactory CreationUoWFactory,
	planner ports.RoutePlanner,
	pricer services.Pricer,
	publisher ports.EventPublisher,
) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
		pricer:     pricer,
		publisher:  publisher,
	}
}

// Handle processes the delivery creation command.
//
// Geocoding and routing happen before the transaction opens; a degraded
// synthetic route estimate from the fallback planner is acceptable and is
// marked on the quote. Promo resolution and the idempotent usage record
// share the creation transaction, so a retried creation never double-counts
// a code.
func (h CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	pickup, dropoff, route, err := h.resolveRoute(ctx, cmd)
	if err != nil {
		return err
	}

	packages, err := buildPackages(cmd.Packages())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	promoCode, err := h.resolvePromo(ctx, uow, cmd.PromoCode())
	if err != nil {
		return err
	}

	quote, err := h.pricer.Quote(route, packages, cmd.Kind(), cmd.RequestedAt(), promoCode)
	if err != nil {
		return err
	}

	aggregate, err := delivery.NewDelivery(
		cmd.DeliveryID(), cmd.SenderID(), pickup, dropoff, packages,
		cmd.Kind(), quote, cmd.InstrumentRef(), offerWindow, time.Now())
	if err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if promoCode != nil {
		if _, err = uow.PromoRepository().RecordUsage(ctx, promoCode.Code(), aggregate.ID()); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// Fire-and-forget: couriers that miss the broadcast pick the offer up
	// through the open-deliveries feed.
	_ = h.publisher.Publish(ctx, ports.Event{
		Name:  ports.EventBidOpened,
		Topic: ports.CouriersTopic,
		At:    time.Now(),
		Data: map[string]any{
			"delivery_id": aggregate.ID().String(),
			"number":      aggregate.Number(),
			"pickup_lat":  pickup.Point().Latitude(),
			"pickup_lon":  pickup.Point().Longitude(),
			"kind":        aggregate.Kind().String(),
			"expires_at":  aggregate.OfferExpiresAt().UTC().Format(time.RFC3339),
		},
	})

	return nil
}

// resolveRoute geocodes both address lines and estimates the route between
// them.
func (h CreateDeliveryCommandHandler) resolveRoute(
	ctx context.Context,
	cmd CreateDeliveryCommand,
) (delivery.Address, delivery.Address, services.RouteEstimate, error) {
	pickupPoint, err := h.planner.Geocode(ctx, cmd.PickupStreet())
	if err != nil {
		return delivery.Address{}, delivery.Address{}, services.RouteEstimate{}, err
	}
	dropoffPoint, err := h.planner.Geocode(ctx, cmd.DropoffStreet())
	if err != nil {
		return delivery.Address{}, delivery.Address{}, services.RouteEstimate{}, err
	}

	pickup, err := delivery.NewAddress(cmd.PickupStreet(), pickupPoint)
	if err != nil {
		return delivery.Address{}, delivery.Address{}, services.RouteEstimate{}, err
	}
	dropoff, err := delivery.NewAddress(cmd.DropoffStreet(), dropoffPoint)
	if err != nil {
		return delivery.Address{}, delivery.Address{}, services.RouteEstimate{}, err
	}

	route, err := h.planner.Route(ctx, pickupPoint, dropoffPoint)
	if err != nil {
		return delivery.Address{}, delivery.Address{}, services.RouteEstimate{}, err
	}

	return pickup, dropoff, route, nil
}

// resolvePromo loads the promo code inside the creation transaction.
// An unknown code is reported to the sender, not silently dropped.
func (h CreateDeliveryCommandHandler) resolvePromo(
	ctx context.Context,
	uow CreationUoW,
	code string,
) (*promo.PromoCode, error) {
	if code == "" {
		return nil, nil //nolint:nilnil // no code supplied
	}

	promoCode, err := uow.PromoRepository().GetByCode(ctx, code)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewValueIsInvalidErrorWithCause("promo code", err)
	}
	if err != nil {
		return nil, err
	}

	return promoCode, nil
}

func buildPackages(specs []PackageSpec) ([]*delivery.Package, error) {
	packages := make([]*delivery.Package, 0, len(specs))
	for _, spec := range specs {
		declaredValue, err := kernel.NewMoney(spec.DeclaredValueCents, kernel.DefaultCurrency)
		if err != nil {
			return nil, err
		}

		pkg, err := delivery.NewPackage(
			kernel.NewUUID(), spec.Size, spec.WeightGrams, declaredValue, spec.Fragile, spec.Insured)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}
