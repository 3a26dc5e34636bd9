package courier

import (
	"errors"
	"fmt"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

const (
	// maxConcurrentLimit bounds how many deliveries a courier may work at
	// once, whatever they configure.
	maxConcurrentLimit = 10

	// maxServiceRadiusKm bounds the service radius a courier may announce.
	maxServiceRadiusKm = 100.0

	// minStars and maxStars bound a single review rating.
	minStars = 1
	maxStars = 5
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when attempting to create a courier without a phone.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// IneligibilityReason explains why a courier cannot accept a delivery.
// The acceptance handler forwards it to the courier so clients can tell a
// permanent rejection (not approved) from a transient one (at capacity).
type IneligibilityReason string

// Ineligibility reasons reported by CanAccept.
const (
	ReasonNone        IneligibilityReason = ""
	ReasonNotApproved IneligibilityReason = "courier is not approved"
	ReasonUnavailable IneligibilityReason = "courier is not available"
	ReasonAtCapacity  IneligibilityReason = "courier is at capacity"
	ReasonOutOfRange  IneligibilityReason = "pickup is outside the courier's service radius"
)

// Courier is the aggregate root of the courier directory. It owns the
// courier's verification state, availability, concurrent-delivery capacity
// and rating aggregate.
//
// Business rules:
//   - only approved, available couriers with spare capacity whose service
//     radius covers the pickup point may accept a delivery
//   - Reserve and Release keep the active-delivery count consistent with
//     the delivery assignments; Release also counts the completion
//   - the rating is a plain arithmetic mean kept as sum and count so the
//     review aggregator can fold in or fully recompute without float drift
type Courier struct {
	id               kernel.UUID
	name             string
	phone            string
	verification     VerificationStatus
	available        bool
	maxConcurrent    int
	activeDeliveries int
	serviceRadiusKm  float64
	location         kernel.GeoPoint
	ratingSum        int64
	ratingCount      int64
	completedCount   int64
	guard            guard.ConstructorGuard
}

// NewCourier registers a new Courier. Registration starts in the pending
// verification state, unavailable, with no active deliveries and no rating.
func NewCourier(
	id kernel.UUID,
	name string,
	phone string,
	maxConcurrent int,
	serviceRadiusKm float64,
	location kernel.GeoPoint,
) (*Courier, error) {
	courier := &Courier{
		verification: VerificationPending,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setPhone(phone),
		courier.setMaxConcurrent(maxConcurrent),
		courier.setServiceRadiusKm(serviceRadiusKm),
		courier.setLocation(location),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage.
// The restored courier behaves identically to one built through normal
// domain operations.
func RestoreCourier(
	id kernel.UUID,
	name string,
	phone string,
	verification VerificationStatus,
	available bool,
	maxConcurrent int,
	activeDeliveries int,
	serviceRadiusKm float64,
	location kernel.GeoPoint,
	ratingSum int64,
	ratingCount int64,
	completedCount int64,
) (*Courier, error) {
	courier := &Courier{
		available: available,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setPhone(phone),
		courier.setVerification(verification),
		courier.setMaxConcurrent(maxConcurrent),
		courier.setActiveDeliveries(activeDeliveries),
		courier.setServiceRadiusKm(serviceRadiusKm),
		courier.setLocation(location),
		courier.setRating(ratingSum, ratingCount),
		courier.setCompletedCount(completedCount),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// Validate checks if the Courier was properly constructed via a factory.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the courier's display name.
func (c *Courier) Name() string {
	return c.name
}

// Phone returns the courier's contact phone.
func (c *Courier) Phone() string {
	return c.phone
}

// Verification returns the onboarding state.
func (c *Courier) Verification() VerificationStatus {
	return c.verification
}

// IsAvailable reports whether the courier is online and taking offers.
func (c *Courier) IsAvailable() bool {
	return c.available
}

// MaxConcurrent returns the configured concurrent-delivery limit.
func (c *Courier) MaxConcurrent() int {
	return c.maxConcurrent
}

// ActiveDeliveries returns how many deliveries the courier is working now.
func (c *Courier) ActiveDeliveries() int {
	return c.activeDeliveries
}

// ServiceRadiusKm returns the radius around the courier's position within
// which they accept pickups.
func (c *Courier) ServiceRadiusKm() float64 {
	return c.serviceRadiusKm
}

// Location returns the courier's last reported position.
func (c *Courier) Location() kernel.GeoPoint {
	return c.location
}

// RatingSum returns the sum of all review stars received.
func (c *Courier) RatingSum() int64 {
	return c.ratingSum
}

// RatingCount returns the number of reviews received.
func (c *Courier) RatingCount() int64 {
	return c.ratingCount
}

// AverageRating returns the arithmetic mean of all review stars, or 0 when
// the courier has no reviews yet.
func (c *Courier) AverageRating() float64 {
	if c.ratingCount == 0 {
		return 0
	}
	return float64(c.ratingSum) / float64(c.ratingCount)
}

// CompletedCount returns the number of deliveries the courier completed.
func (c *Courier) CompletedCount() int64 {
	return c.completedCount
}

// CanAccept reports whether the courier is eligible to accept a delivery
// picked up at the given point, and the reason when they are not.
// Eligibility is re-checked under lock inside the acceptance transaction;
// this check alone never reserves anything.
func (c *Courier) CanAccept(pickup kernel.GeoPoint) (bool, IneligibilityReason, error) {
	if err := pickup.Validate(); err != nil {
		return false, ReasonNone, err
	}

	if c.verification != VerificationApproved {
		return false, ReasonNotApproved, nil
	}
	if !c.available {
		return false, ReasonUnavailable, nil
	}
	if c.activeDeliveries >= c.maxConcurrent {
		return false, ReasonAtCapacity, nil
	}

	distance, err := c.location.DistanceKm(pickup)
	if err != nil {
		return false, ReasonNone, err
	}
	if distance > c.serviceRadiusKm {
		return false, ReasonOutOfRange, nil
	}

	return true, ReasonNone, nil
}

// Reserve takes one slot of the courier's concurrent-delivery capacity.
// Called inside the acceptance transaction after CanAccept passed under
// lock.
func (c *Courier) Reserve() error {
	if c.activeDeliveries >= c.maxConcurrent {
		return errs.NewConflictError("courier", c.id.String(), "courier is at capacity")
	}

	c.activeDeliveries++
	return nil
}

// Release frees one slot of the courier's capacity and counts the
// completion. Called when a delivery the courier worked reaches a final
// outcome.
func (c *Courier) Release() error {
	if c.activeDeliveries == 0 {
		return errs.NewConflictError("courier", c.id.String(), "courier has no active deliveries")
	}

	c.activeDeliveries--
	c.completedCount++
	return nil
}

// ReleaseWithoutCompletion frees one capacity slot without counting a
// completion. Used by the compensating cancellation path.
func (c *Courier) ReleaseWithoutCompletion() error {
	if c.activeDeliveries == 0 {
		return errs.NewConflictError("courier", c.id.String(), "courier has no active deliveries")
	}

	c.activeDeliveries--
	return nil
}

// Approve resolves a pending verification positively.
func (c *Courier) Approve() error {
	newStatus, err := c.verification.Approve()
	if err != nil {
		return err
	}

	c.verification = newStatus
	return nil
}

// Reject resolves a pending verification negatively. A rejected courier
// also goes offline.
func (c *Courier) Reject() error {
	newStatus, err := c.verification.Reject()
	if err != nil {
		return err
	}

	c.verification = newStatus
	c.available = false
	return nil
}

// SetAvailability flips the courier's availability. Only approved couriers
// can go online.
func (c *Courier) SetAvailability(available bool) error {
	if available && c.verification != VerificationApproved {
		return errs.NewConflictError("courier", c.id.String(),
			fmt.Sprintf("courier in verification status %s cannot go online", c.verification))
	}

	c.available = available
	return nil
}

// MoveTo updates the courier's last reported position.
func (c *Courier) MoveTo(location kernel.GeoPoint) error {
	return c.setLocation(location)
}

// ApplyRating folds one new review into the rating aggregate.
func (c *Courier) ApplyRating(stars int) error {
	if stars < minStars || stars > maxStars {
		return errs.NewValueIsOutOfRangeError("stars", stars, minStars, maxStars)
	}

	c.ratingSum += int64(stars)
	c.ratingCount++
	return nil
}

// RecalculateRating replaces the rating aggregate with a full recompute
// over all persisted reviews. The review transaction calls this so the
// stored aggregate never drifts from the review table.
func (c *Courier) RecalculateRating(sum int64, count int64) error {
	return c.setRating(sum, count)
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}
	c.phone = phone
	return nil
}

func (c *Courier) setVerification(verification VerificationStatus) error {
	if err := verification.Validate(); err != nil {
		return err
	}
	c.verification = verification
	return nil
}

func (c *Courier) setMaxConcurrent(maxConcurrent int) error {
	if maxConcurrent < 1 || maxConcurrent > maxConcurrentLimit {
		return errs.NewValueIsOutOfRangeError("max concurrent deliveries",
			maxConcurrent, 1, maxConcurrentLimit)
	}
	c.maxConcurrent = maxConcurrent
	return nil
}

func (c *Courier) setActiveDeliveries(activeDeliveries int) error {
	if activeDeliveries < 0 || activeDeliveries > c.maxConcurrent {
		return errs.NewValueIsOutOfRangeError("active deliveries",
			activeDeliveries, 0, c.maxConcurrent)
	}
	c.activeDeliveries = activeDeliveries
	return nil
}

func (c *Courier) setServiceRadiusKm(serviceRadiusKm float64) error {
	if serviceRadiusKm <= 0 || serviceRadiusKm > maxServiceRadiusKm {
		return errs.NewValueIsOutOfRangeError("service radius km",
			serviceRadiusKm, 0, maxServiceRadiusKm)
	}
	c.serviceRadiusKm = serviceRadiusKm
	return nil
}

func (c *Courier) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	c.location = location
	return nil
}

func (c *Courier) setRating(sum int64, count int64) error {
	if count < 0 {
		return errs.NewValueIsInvalidError("rating count")
	}
	if sum < count*minStars || sum > count*maxStars {
		return errs.NewValueIsInvalidErrorWithCause("rating sum",
			fmt.Errorf("%d is not reachable with %d reviews", sum, count))
	}
	c.ratingSum = sum
	c.ratingCount = count
	return nil
}

func (c *Courier) setCompletedCount(completedCount int64) error {
	if completedCount < 0 {
		return errs.NewValueIsInvalidError("completed count")
	}
	c.completedCount = completedCount
	return nil
}
