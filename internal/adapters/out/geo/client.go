// Package geo talks to the external geocoding/routing service and shields
// the engine from its failures: a retrying HTTP client, an optional
// redis-backed geocode cache and a fallback planner that fabricates
// degraded synthetic estimates when the service is down.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/services"
	"dropmarket/internal/pkg/backoff"
	"dropmarket/internal/pkg/errs"
)

const serviceName = "geo"

// Client is the HTTP adapter for an OSRM/Nominatim-style routing service.
// Transient failures (transport errors, 5xx) are retried per the policy;
// everything the service could not answer surfaces as an external
// dependency error for the fallback planner to absorb.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     backoff.Policy
	logger     *slog.Logger
}

// NewClient creates a routing client. The timeout bounds every single
// attempt; the policy bounds how often an attempt is repeated.
func NewClient(baseURL string, timeout time.Duration, policy backoff.Policy, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		policy:     policy,
		logger:     logger.With("component", "geo_client"),
	}
}

type geocodeResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type routeResponse struct {
	DistanceKm  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`
}

// Geocode resolves a free-text address line to a coordinate.
func (c *Client) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	endpoint := fmt.Sprintf("%s/geocode?q=%s", c.baseURL, url.QueryEscape(address))

	var body geocodeResponse
	if err := c.get(ctx, endpoint, &body); err != nil {
		return kernel.GeoPoint{}, err
	}

	return kernel.NewGeoPoint(body.Lat, body.Lon)
}

// Route estimates the driving route between two points.
func (c *Client) Route(ctx context.Context, from kernel.GeoPoint, to kernel.GeoPoint) (services.RouteEstimate, error) {
	endpoint := fmt.Sprintf("%s/route?from=%f,%f&to=%f,%f",
		c.baseURL, from.Latitude(), from.Longitude(), to.Latitude(), to.Longitude())

	var body routeResponse
	if err := c.get(ctx, endpoint, &body); err != nil {
		return services.RouteEstimate{}, err
	}

	return services.RouteEstimate{
		DistanceKm:  body.DistanceKm,
		DurationMin: body.DurationMin,
		Degraded:    false,
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	var lastErr error

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		err := c.getOnce(ctx, endpoint, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var depErr *errs.ExternalDependencyError
		retryable := errors.As(err, &depErr) && depErr.Retryable
		if ctx.Err() != nil || attempt == c.policy.MaxAttempts || !retryable {
			break
		}

		delay := c.policy.Delay(attempt)
		c.logger.WarnContext(ctx, "Routing service retry",
			"attempt", attempt, "delay", delay, "error", err)
		if !backoff.Sleep(ctx, delay) {
			break
		}
	}

	return lastErr
}

func (c *Client) getOnce(ctx context.Context, endpoint string, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return errs.NewExternalDependencyErrorWithCause(serviceName, true, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}()

	switch {
	case response.StatusCode >= http.StatusInternalServerError:
		return errs.NewExternalDependencyErrorWithCause(serviceName, true,
			fmt.Errorf("routing service returned %d", response.StatusCode))
	case response.StatusCode != http.StatusOK:
		return errs.NewExternalDependencyErrorWithCause(serviceName, false,
			fmt.Errorf("routing service returned %d", response.StatusCode))
	}

	if err = json.NewDecoder(response.Body).Decode(out); err != nil {
		return errs.NewExternalDependencyErrorWithCause(serviceName, false, err)
	}
	return nil
}
