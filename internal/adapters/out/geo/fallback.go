package geo

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/services"
	"dropmarket/internal/core/ports"
)

type counter interface {
	Inc()
}

// FallbackPlanner decorates a route planner with a synthetic fallback.
// When the service cannot answer, the fallback fabricates a deterministic
// estimate seeded by the inputs: the same addresses always produce the same
// coordinates and the same route, so retried requests price identically.
// Fabricated coordinates are remembered, and any estimate touching one
// carries Degraded=true even when the routing call itself succeeds, so
// fabricated data never leaves this adapter unmarked.
type FallbackPlanner struct {
	next      ports.RoutePlanner
	logger    *slog.Logger
	fallbacks counter

	mu        sync.Mutex
	synthetic map[string]struct{}
}

// syntheticPointLimit bounds the fabricated-coordinate memory. Resetting
// only forgets degradation markers for long-gone points.
const syntheticPointLimit = 4096

// NewFallbackPlanner wraps a planner with the synthetic fallback. The
// counter may be nil.
func NewFallbackPlanner(next ports.RoutePlanner, logger *slog.Logger, fallbacks counter) *FallbackPlanner {
	return &FallbackPlanner{
		next:      next,
		logger:    logger.With("component", "geo_fallback"),
		fallbacks: fallbacks,
		synthetic: make(map[string]struct{}),
	}
}

// Geocode resolves the address through the service, or derives a synthetic
// coordinate from the address text when the service fails.
func (f *FallbackPlanner) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	point, err := f.next.Geocode(ctx, address)
	if err == nil {
		return point, nil
	}

	f.noteFallback(ctx, "geocode", err)
	point, err = syntheticPoint(address)
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	f.rememberSynthetic(point)

	return point, nil
}

// Route estimates the route through the service, or fabricates a degraded
// estimate from the straight-line distance when the service fails. A route
// between synthetic coordinates is degraded either way: the distance came
// out of a fabricated point, not the real address.
func (f *FallbackPlanner) Route(ctx context.Context, from kernel.GeoPoint, to kernel.GeoPoint) (services.RouteEstimate, error) {
	estimate, err := f.next.Route(ctx, from, to)
	if err == nil {
		estimate.Degraded = estimate.Degraded || f.isSynthetic(from) || f.isSynthetic(to)
		return estimate, nil
	}

	f.noteFallback(ctx, "route", err)
	return syntheticRoute(from, to)
}

func (f *FallbackPlanner) rememberSynthetic(point kernel.GeoPoint) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.synthetic) >= syntheticPointLimit {
		f.synthetic = make(map[string]struct{})
	}
	f.synthetic[point.String()] = struct{}{}
}

func (f *FallbackPlanner) isSynthetic(point kernel.GeoPoint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.synthetic[point.String()]
	return ok
}

func (f *FallbackPlanner) noteFallback(ctx context.Context, operation string, cause error) {
	if f.fallbacks != nil {
		f.fallbacks.Inc()
	}
	f.logger.WarnContext(ctx, "Routing service unavailable, using synthetic estimate",
		"operation", operation, "error", cause)
}

// syntheticPoint derives a stable coordinate from the address text, kept
// inside inhabited latitudes.
func syntheticPoint(address string) (kernel.GeoPoint, error) {
	seed := addressSeed(address)

	// Latitude in [-60, 70), longitude in [-180, 180).
	lat := float64(seed%13_000)/100.0 - 60.0
	lon := float64((seed/13_000)%36_000)/100.0 - 180.0

	return kernel.NewGeoPoint(lat, lon)
}

// syntheticRoute fabricates an estimate from the great-circle distance: a
// road detour factor between 1.2 and 1.5 derived from the endpoints, and a
// duration assuming urban courier speed.
func syntheticRoute(from kernel.GeoPoint, to kernel.GeoPoint) (services.RouteEstimate, error) {
	directKm, err := from.DistanceKm(to)
	if err != nil {
		return services.RouteEstimate{}, err
	}

	seed := addressSeed(from.String() + "|" + to.String())
	detour := 1.2 + float64(seed%31)/100.0

	const courierSpeedKmh = 25.0
	distanceKm := directKm * detour
	durationMin := int(distanceKm/courierSpeedKmh*60.0) + 5

	return services.RouteEstimate{
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Degraded:    true,
	}, nil
}

func addressSeed(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
