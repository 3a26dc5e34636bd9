package delivery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
)

// MaxOfferRebroadcasts bounds how many times an unclaimed offer is extended
// before the delivery fails.
const MaxOfferRebroadcasts = 3

// numberPrefix prefixes the human-readable delivery number.
const numberPrefix = "DM-"

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not
	// created through the NewDelivery or RestoreDelivery factory methods.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")
)

// Delivery is the aggregate root of the delivery lifecycle. It owns the
// packages, the price quote, the append-only tracking history and the
// payment state, and it enforces the state machine:
//
//	Requested ──> CourierAssigned ──> PickedUp ──> Delivered
//	    │                │                │
//	    └────────────────┴────────────────┴──> Cancelled / Failed
//
// Invariants maintained by the aggregate:
//   - a courier reference is present iff the delivery is in CourierAssigned,
//     PickedUp or Delivered
//   - every state transition appends exactly one milestone tracking record
//   - pickup and delivery each carry a proof photo reference
//   - a paid delivery is never charged again
type Delivery struct {
	id               kernel.UUID
	number           string
	senderID         kernel.UUID
	pickup           Address
	dropoff          Address
	packages         []*Package
	kind             Kind
	status           Status
	quote            Quote
	courierID        *kernel.UUID
	paymentStatus    PaymentStatus
	instrumentRef    string
	offerExpiresAt   time.Time
	rebroadcastCount int
	pickupProofURL   string
	deliveryProofURL string
	createdAt        time.Time
	updatedAt        time.Time
	tracking         []TrackingRecord
	isConstructed    bool
}

// NewDelivery creates a priced, broadcast-ready Delivery in Requested status
// with payment pending. The human-readable delivery number is derived from
// the ID. The offer expires at now+offerTTL; the expiry sweep extends or
// fails it afterwards.
//
// The initial milestone tracking record is written at the pickup point.
func NewDelivery(
	id kernel.UUID,
	senderID kernel.UUID,
	pickup Address,
	dropoff Address,
	packages []*Package,
	kind Kind,
	quote Quote,
	instrumentRef string,
	offerTTL time.Duration,
	now time.Time,
) (*Delivery, error) {
	delivery := &Delivery{
		status:        Requested,
		paymentStatus: PaymentPending,
		isConstructed: true,
	}

	if err := errors.Join(
		delivery.setID(id),
		delivery.setSenderID(senderID),
		delivery.setPickup(pickup),
		delivery.setDropoff(dropoff),
		delivery.setPackages(packages),
		delivery.setKind(kind),
		delivery.setQuote(quote),
		delivery.setInstrumentRef(instrumentRef),
		delivery.setOfferExpiry(offerTTL, now),
		delivery.setCreatedAt(now),
	); err != nil {
		return nil, err
	}

	delivery.number = numberFromID(id)

	pickupPoint := pickup.Point()
	if err := delivery.appendTracking(Requested, &pickupPoint, "", "delivery requested", true, now); err != nil {
		return nil, err
	}

	return delivery, nil
}

// RestoreDelivery reconstructs a Delivery from persistent storage.
// Beyond field validation it re-checks the cross-field invariants the
// database cannot express, so a corrupted row never becomes a live
// aggregate.
func RestoreDelivery(
	id kernel.UUID,
	number string,
	senderID kernel.UUID,
	pickup Address,
	dropoff Address,
	packages []*Package,
	kind Kind,
	status Status,
	quote Quote,
	courierID *kernel.UUID,
	paymentStatus PaymentStatus,
	instrumentRef string,
	offerExpiresAt time.Time,
	rebroadcastCount int,
	pickupProofURL string,
	deliveryProofURL string,
	createdAt time.Time,
	updatedAt time.Time,
	tracking []TrackingRecord,
) (*Delivery, error) {
	delivery := &Delivery{
		rebroadcastCount: rebroadcastCount,
		pickupProofURL:   pickupProofURL,
		deliveryProofURL: deliveryProofURL,
		offerExpiresAt:   offerExpiresAt,
		updatedAt:        updatedAt,
		isConstructed:    true,
	}

	if err := errors.Join(
		delivery.setID(id),
		delivery.setNumber(number),
		delivery.setSenderID(senderID),
		delivery.setPickup(pickup),
		delivery.setDropoff(dropoff),
		delivery.setPackages(packages),
		delivery.setKind(kind),
		delivery.setStatus(status),
		delivery.setQuote(quote),
		delivery.setCourierID(courierID),
		delivery.setPaymentStatus(paymentStatus),
		delivery.setInstrumentRef(instrumentRef),
		delivery.setCreatedAt(createdAt),
		delivery.setTracking(tracking),
	); err != nil {
		return nil, err
	}

	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return nil, err
	}

	return delivery, nil
}

// numberFromID derives the human-readable delivery number from the aggregate
// ID. The derivation is stable: restoring and re-deriving yields the same
// number.
func numberFromID(id kernel.UUID) string {
	compact := strings.ReplaceAll(id.String(), "-", "")
	return numberPrefix + strings.ToUpper(compact[:8])
}

// Validate ensures the Delivery was properly constructed through a factory.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// IsEqual compares two deliveries by their unique identifiers.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// Number returns the human-readable delivery number.
func (d *Delivery) Number() string {
	return d.number
}

// SenderID returns the identifier of the requesting sender.
func (d *Delivery) SenderID() kernel.UUID {
	return d.senderID
}

// Pickup returns the pickup address.
func (d *Delivery) Pickup() Address {
	return d.pickup
}

// Dropoff returns the dropoff address.
func (d *Delivery) Dropoff() Address {
	return d.dropoff
}

// Packages returns the parcels of the delivery.
// The returned slice must not be modified.
func (d *Delivery) Packages() []*Package {
	return d.packages
}

// Kind returns the requested service level.
func (d *Delivery) Kind() Kind {
	return d.kind
}

// Status returns the current lifecycle status.
func (d *Delivery) Status() Status {
	return d.status
}

// Quote returns the locked-in price quote.
func (d *Delivery) Quote() Quote {
	return d.quote
}

// Courier returns the assigned courier's ID, or nil when none is assigned.
func (d *Delivery) Courier() *kernel.UUID {
	return d.courierID
}

// PaymentStatus returns the settlement state of the delivery.
func (d *Delivery) PaymentStatus() PaymentStatus {
	return d.paymentStatus
}

// InstrumentRef returns the opaque payment instrument reference supplied at
// creation. It is passed through to the payment gateway and never
// interpreted or logged.
func (d *Delivery) InstrumentRef() string {
	return d.instrumentRef
}

// OfferExpiresAt returns the deadline for couriers to accept the offer.
func (d *Delivery) OfferExpiresAt() time.Time {
	return d.offerExpiresAt
}

// RebroadcastCount returns how many times the offer was extended.
func (d *Delivery) RebroadcastCount() int {
	return d.rebroadcastCount
}

// PickupProofURL returns the pickup proof photo reference, or "" before
// pickup.
func (d *Delivery) PickupProofURL() string {
	return d.pickupProofURL
}

// DeliveryProofURL returns the delivery proof photo reference, or "" before
// completion.
func (d *Delivery) DeliveryProofURL() string {
	return d.deliveryProofURL
}

// CreatedAt returns the creation timestamp.
func (d *Delivery) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns the timestamp of the last mutation.
func (d *Delivery) UpdatedAt() time.Time {
	return d.updatedAt
}

// Tracking returns a copy of the append-only tracking history in insertion
// order.
func (d *Delivery) Tracking() []TrackingRecord {
	records := make([]TrackingRecord, len(d.tracking))
	copy(records, d.tracking)
	return records
}

// IsOfferExpired reports whether the offer deadline has passed while the
// delivery is still waiting for a courier.
func (d *Delivery) IsOfferExpired(now time.Time) bool {
	return d.status == Requested && now.After(d.offerExpiresAt)
}

// Assign records the courier that won the acceptance race and moves the
// delivery to CourierAssigned.
//
// Assign is only legal from Requested: of all concurrent acceptance attempts
// exactly one observes Requested, so every other caller receives a conflict
// error and must not blindly retry.
func (d *Delivery) Assign(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	newStatus, err := d.status.Assign()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.courierID = &courierID
	return d.appendTracking(newStatus, nil, "", "courier accepted the offer", true, now)
}

// MarkPickedUp records that the assigned courier collected the packages,
// with a mandatory proof photo. Only the assigned courier may report pickup.
func (d *Delivery) MarkPickedUp(courierID kernel.UUID, photoURL string, point kernel.GeoPoint, now time.Time) error {
	if err := d.ensureActingCourier(courierID, "pick up"); err != nil {
		return err
	}
	if photoURL == "" {
		return errs.NewValueIsRequiredError("pickup proof photo")
	}
	if err := point.Validate(); err != nil {
		return err
	}

	newStatus, err := d.status.PickUp()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.pickupProofURL = photoURL
	return d.appendTracking(newStatus, &point, photoURL, "packages picked up", true, now)
}

// MarkDelivered records that the packages reached the recipient, with a
// mandatory proof photo. Only the assigned courier may report delivery.
// The courier reference is retained on the delivered aggregate so reviews
// and settlement can attribute the work.
func (d *Delivery) MarkDelivered(courierID kernel.UUID, photoURL string, point kernel.GeoPoint, now time.Time) error {
	if err := d.ensureActingCourier(courierID, "deliver"); err != nil {
		return err
	}
	if photoURL == "" {
		return errs.NewValueIsRequiredError("delivery proof photo")
	}
	if err := point.Validate(); err != nil {
		return err
	}

	newStatus, err := d.status.Deliver()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.deliveryProofURL = photoURL
	return d.appendTracking(newStatus, &point, photoURL, "packages delivered", true, now)
}

// Cancel moves the delivery to the terminal Cancelled state.
// The courier reference is dropped; the tracking history keeps the
// assignment on record.
func (d *Delivery) Cancel(reason string, now time.Time) error {
	newStatus, err := d.status.Cancel()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.courierID = nil
	return d.appendTracking(newStatus, nil, "", reason, true, now)
}

// MarkFailed moves the delivery to the terminal Failed state.
// Like Cancel, the courier reference is dropped.
func (d *Delivery) MarkFailed(reason string, now time.Time) error {
	newStatus, err := d.status.Fail()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.courierID = nil
	return d.appendTracking(newStatus, nil, "", reason, true, now)
}

// RecordLocation appends a non-milestone location ping from the assigned
// courier. Pings are only accepted while the delivery is actively worked.
func (d *Delivery) RecordLocation(courierID kernel.UUID, point kernel.GeoPoint, now time.Time) error {
	if err := d.ensureActingCourier(courierID, "report location for"); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	if !d.status.IsActive() {
		return errs.NewConflictError("delivery", d.id.String(),
			fmt.Sprintf("delivery in status %s does not accept location reports", d.status))
	}

	return d.appendTracking(d.status, &point, "", "", false, now)
}

// ExtendOffer pushes the offer deadline out by ttl and counts the
// re-broadcast. The expiry sweep calls this when no courier accepted in
// time; after MaxOfferRebroadcasts extensions the sweep fails the delivery
// instead.
func (d *Delivery) ExtendOffer(ttl time.Duration, now time.Time) error {
	if d.status != Requested {
		return errs.NewConflictError("delivery", d.id.String(),
			fmt.Sprintf("offer cannot be extended in status %s", d.status))
	}
	if d.rebroadcastCount >= MaxOfferRebroadcasts {
		return errs.NewConflictError("delivery", d.id.String(), "offer re-broadcast limit reached")
	}
	if ttl <= 0 {
		return errs.NewValueIsInvalidError("offer ttl")
	}

	d.rebroadcastCount++
	d.offerExpiresAt = now.Add(ttl)
	d.updatedAt = now
	return nil
}

// MarkPaid records the successful settlement of a delivered delivery.
// A second call is a conflict: a paid delivery is never charged again.
func (d *Delivery) MarkPaid(now time.Time) error {
	if d.status != Delivered {
		return errs.NewValueIsInvalidErrorWithCause("payment status",
			fmt.Errorf("delivery in status %s cannot be settled", d.status))
	}

	newPaymentStatus, err := d.paymentStatus.MarkPaid()
	if err != nil {
		return err
	}

	d.paymentStatus = newPaymentStatus
	d.updatedAt = now
	return nil
}

// MarkPaymentFailed records a declined settlement attempt. The settlement
// retry sweep picks the delivery up again later.
func (d *Delivery) MarkPaymentFailed(now time.Time) error {
	newPaymentStatus, err := d.paymentStatus.MarkFailed()
	if err != nil {
		return err
	}

	d.paymentStatus = newPaymentStatus
	d.updatedAt = now
	return nil
}

// ensureActingCourier rejects courier operations from anyone but the
// assigned courier.
func (d *Delivery) ensureActingCourier(courierID kernel.UUID, action string) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if d.courierID == nil || !d.courierID.IsEqual(courierID) {
		return errs.NewUnauthorizedError(
			fmt.Sprintf("courier %s", courierID),
			fmt.Sprintf("%s delivery %s", action, d.number))
	}
	return nil
}

func (d *Delivery) appendTracking(
	status Status,
	point *kernel.GeoPoint,
	photoURL string,
	note string,
	milestone bool,
	at time.Time,
) error {
	record, err := NewTrackingRecord(status, point, photoURL, note, milestone, at)
	if err != nil {
		return err
	}

	d.tracking = append(d.tracking, record)
	d.updatedAt = at
	return nil
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setNumber(number string) error {
	if !strings.HasPrefix(number, numberPrefix) {
		return errs.NewValueIsInvalidErrorWithCause("delivery number",
			fmt.Errorf("%q does not start with %q", number, numberPrefix))
	}
	d.number = number
	return nil
}

func (d *Delivery) setSenderID(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("sender ID", err)
	}
	d.senderID = senderID
	return nil
}

func (d *Delivery) setPickup(pickup Address) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	d.pickup = pickup
	return nil
}

func (d *Delivery) setDropoff(dropoff Address) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}
	d.dropoff = dropoff
	return nil
}

func (d *Delivery) setPackages(packages []*Package) error {
	if len(packages) == 0 {
		return errs.NewValueIsRequiredError("packages")
	}
	for _, pkg := range packages {
		if err := pkg.Validate(); err != nil {
			return err
		}
	}
	d.packages = packages
	return nil
}

func (d *Delivery) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	d.kind = kind
	return nil
}

func (d *Delivery) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	d.status = status
	return nil
}

func (d *Delivery) setQuote(quote Quote) error {
	if err := quote.Validate(); err != nil {
		return err
	}
	d.quote = quote
	return nil
}

func (d *Delivery) setCourierID(courierID *kernel.UUID) error {
	if courierID == nil {
		return nil
	}
	if err := courierID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("courier ID", err)
	}
	id := *courierID
	d.courierID = &id
	return nil
}

func (d *Delivery) setPaymentStatus(paymentStatus PaymentStatus) error {
	if err := paymentStatus.Validate(); err != nil {
		return err
	}
	d.paymentStatus = paymentStatus
	return nil
}

func (d *Delivery) setInstrumentRef(instrumentRef string) error {
	if instrumentRef == "" {
		return errs.NewValueIsRequiredError("payment instrument reference")
	}
	d.instrumentRef = instrumentRef
	return nil
}

func (d *Delivery) setOfferExpiry(offerTTL time.Duration, now time.Time) error {
	if offerTTL <= 0 {
		return errs.NewValueIsInvalidError("offer ttl")
	}
	d.offerExpiresAt = now.Add(offerTTL)
	return nil
}

func (d *Delivery) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	d.createdAt = createdAt
	if d.updatedAt.IsZero() {
		d.updatedAt = createdAt
	}
	return nil
}

func (d *Delivery) setTracking(tracking []TrackingRecord) error {
	for _, record := range tracking {
		if err := record.Validate(); err != nil {
			return err
		}
	}
	d.tracking = tracking
	return nil
}
