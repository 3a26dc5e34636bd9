package kernel

import (
	"errors"
	"fmt"
	"math"

	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

const (
	// MinLatitude is the southernmost valid latitude in degrees.
	MinLatitude = -90.0
	// MaxLatitude is the northernmost valid latitude in degrees.
	MaxLatitude = 90.0
	// MinLongitude is the westernmost valid longitude in degrees.
	MinLongitude = -180.0
	// MaxLongitude is the easternmost valid longitude in degrees.
	MaxLongitude = 180.0

	earthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. GeoPoints must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a geographic coordinate pair in decimal degrees.
// GeoPoint is an immutable value object that guarantees its latitude and
// longitude are within valid bounds. The zero value is invalid and fails
// validation - use the constructor to create instances.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(40.7128, -74.0060)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Printf("Pickup: %s", point) // Output: Pickup: GeoPoint(40.712800,-74.006000)
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint with the given coordinates.
// Latitude must be within [MinLatitude, MaxLatitude] and longitude within
// [MinLongitude, MaxLongitude]. Returns a validation error otherwise.
func NewGeoPoint(latitude float64, longitude float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLatitude(latitude), point.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks if the GeoPoint was properly constructed via NewGeoPoint.
// The zero value of GeoPoint is invalid and fails this validation.
func (g GeoPoint) Validate() error {
	return g.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in decimal degrees.
func (g GeoPoint) Latitude() float64 {
	return g.latitude
}

// Longitude returns the longitude in decimal degrees.
func (g GeoPoint) Longitude() float64 {
	return g.longitude
}

// String returns a human-readable representation in the form
// "GeoPoint(lat,lng)" with six decimal places. Implements fmt.Stringer.
func (g GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", g.latitude, g.longitude)
}

// IsEqual compares two geo points for exact coordinate equality.
// Both points must be properly constructed for the comparison to succeed.
func (g GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(g.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return g.latitude == other.latitude && g.longitude == other.longitude, nil
}

// DistanceKm calculates the great-circle distance to another point in
// kilometers using the haversine formula. Both points must be properly
// constructed for the calculation to succeed.
//
// Example:
//
//	warehouse, _ := kernel.NewGeoPoint(40.7128, -74.0060)
//	customer, _ := kernel.NewGeoPoint(40.7614, -73.9776)
//
//	km, err := warehouse.DistanceKm(customer)
//	// km ≈ 5.9, err = nil
func (g GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(g.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := g.latitude * math.Pi / 180
	lat2 := other.latitude * math.Pi / 180
	dLat := (other.latitude - g.latitude) * math.Pi / 180
	dLng := (other.longitude - g.longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

// setLatitude sets the latitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use
// value receivers, so these private setters can self-encapsulate validation
// during object construction.
func (g *GeoPoint) setLatitude(latitude float64) error {
	if latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}

	g.latitude = latitude
	return nil
}

// setLongitude sets the longitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use
// value receivers, so these private setters can self-encapsulate validation
// during object construction.
func (g *GeoPoint) setLongitude(longitude float64) error {
	if longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}

	g.longitude = longitude
	return nil
}
