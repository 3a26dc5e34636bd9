package geo

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/services"
	"dropmarket/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	geocodeKeyPrefix = "geo:geocode:"
	geocodeTTL       = 24 * time.Hour
)

// CachingPlanner caches geocode results in redis, keyed by the normalized
// address line. Cache failures fall through to the live call; the cache can
// be down without the create path noticing. Routes are not cached: they
// depend on traffic and go stale too fast.
type CachingPlanner struct {
	next   ports.RoutePlanner
	client *redis.Client
	logger *slog.Logger
}

// NewCachingPlanner wraps a planner with the redis geocode cache.
func NewCachingPlanner(next ports.RoutePlanner, client *redis.Client, logger *slog.Logger) *CachingPlanner {
	return &CachingPlanner{
		next:   next,
		client: client,
		logger: logger.With("component", "geo_cache"),
	}
}

// Geocode resolves the address, preferring the cached coordinate.
func (c *CachingPlanner) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	key := geocodeKeyPrefix + normalizeAddress(address)

	if point, ok := c.lookup(ctx, key); ok {
		return point, nil
	}

	point, err := c.next.Geocode(ctx, address)
	if err != nil {
		return kernel.GeoPoint{}, err
	}

	c.store(ctx, key, point)
	return point, nil
}

// Route passes through to the wrapped planner.
func (c *CachingPlanner) Route(ctx context.Context, from kernel.GeoPoint, to kernel.GeoPoint) (services.RouteEstimate, error) {
	return c.next.Route(ctx, from, to)
}

func (c *CachingPlanner) lookup(ctx context.Context, key string) (kernel.GeoPoint, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "Geocode cache read failed", "error", err)
		}
		return kernel.GeoPoint{}, false
	}

	lat, lon, ok := parseCachedPoint(value)
	if !ok {
		return kernel.GeoPoint{}, false
	}

	point, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return kernel.GeoPoint{}, false
	}
	return point, true
}

func (c *CachingPlanner) store(ctx context.Context, key string, point kernel.GeoPoint) {
	value := fmt.Sprintf("%f,%f", point.Latitude(), point.Longitude())
	if err := c.client.Set(ctx, key, value, geocodeTTL).Err(); err != nil {
		c.logger.WarnContext(ctx, "Geocode cache write failed", "error", err)
	}
}

func parseCachedPoint(value string) (lat float64, lon float64, ok bool) {
	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, latErr := strconv.ParseFloat(parts[0], 64)
	lon, lonErr := strconv.ParseFloat(parts[1], 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// normalizeAddress folds the address line so trivially different spellings
// share a cache entry.
func normalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
