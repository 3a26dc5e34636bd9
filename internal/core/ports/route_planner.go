package ports

import (
	"context"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/services"
)

// RoutePlanner resolves addresses and estimates routes through an external
// routing service. Implementations wrap failures in
// errs.ExternalDependencyError; the fallback decorator turns route failures
// into degraded synthetic estimates instead.
type RoutePlanner interface {
	// Geocode resolves a free-text address line to a coordinate.
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)

	// Route estimates the driving route between two points.
	Route(ctx context.Context, from kernel.GeoPoint, to kernel.GeoPoint) (services.RouteEstimate, error)
}
