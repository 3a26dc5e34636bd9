package commands

import (
	"errors"
	"time"

	"dropmarket/internal/core/domain/model/delivery"
	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

var (
	ErrCreateDeliveryCommandIsNotConstructed = errors.New(
		"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
	)
	ErrPickupStreetIsRequired  = errors.New("pickup street is required")
	ErrDropoffStreetIsRequired = errors.New("dropoff street is required")
	ErrPackagesAreRequired     = errors.New("at least one package is required")
	ErrInstrumentRefIsRequired = errors.New("payment instrument reference is required")
	ErrRequestedAtIsRequired   = errors.New("requested time is required")
)

// PackageSpec describes one parcel of a delivery request before the
// aggregate is built.
type PackageSpec struct {
	Size               delivery.SizeClass
	WeightGrams        int
	DeclaredValueCents int64
	Fragile            bool
	Insured            bool
}

// CreateDeliveryCommand represents a sender's request for a new delivery:
// both address lines, the parcels, the service level, an optional promo
// code and the payment instrument to settle with later.
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID    kernel.UUID
	senderID      kernel.UUID
	pickupStreet  string
	dropoffStreet string
	packages      []PackageSpec
	kind          delivery.Kind
	promoCode     string
	instrumentRef string
	requestedAt   time.Time

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand creates a command to request a new delivery.
// The promo code may be empty; everything else is required.
func NewCreateDeliveryCommand(
	deliveryID kernel.UUID,
	senderID kernel.UUID,
	pickupStreet string,
	dropoffStreet string,
	packages []PackageSpec,
	kind delivery.Kind,
	promoCode string,
	instrumentRef string,
	requestedAt time.Time,
) (CreateDeliveryCommand, error) {
	command := CreateDeliveryCommand{
		promoCode: promoCode,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDeliveryID(deliveryID),
		command.setSenderID(senderID),
		command.setPickupStreet(pickupStreet),
		command.setDropoffStreet(dropoffStreet),
		command.setPackages(packages),
		command.setKind(kind),
		command.setInstrumentRef(instrumentRef),
		command.setRequestedAt(requestedAt),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the client-generated identifier of the new delivery.
func (c CreateDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// SenderID returns the requesting sender's identifier.
func (c CreateDeliveryCommand) SenderID() kernel.UUID {
	return c.senderID
}

// PickupStreet returns the free-text pickup address line.
func (c CreateDeliveryCommand) PickupStreet() string {
	return c.pickupStreet
}

// DropoffStreet returns the free-text dropoff address line.
func (c CreateDeliveryCommand) DropoffStreet() string {
	return c.dropoffStreet
}

// Packages returns the parcel specifications.
func (c CreateDeliveryCommand) Packages() []PackageSpec {
	return c.packages
}

// Kind returns the requested service level.
func (c CreateDeliveryCommand) Kind() delivery.Kind {
	return c.kind
}

// PromoCode returns the promo code, or "" when none was supplied.
func (c CreateDeliveryCommand) PromoCode() string {
	return c.promoCode
}

// InstrumentRef returns the opaque payment instrument reference.
func (c CreateDeliveryCommand) InstrumentRef() string {
	return c.instrumentRef
}

// RequestedAt returns the requested time used for surge pricing.
func (c CreateDeliveryCommand) RequestedAt() time.Time {
	return c.requestedAt
}

func (c *CreateDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *CreateDeliveryCommand) setSenderID(senderID kernel.UUID) error {
	if err := senderID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("sender ID", err)
	}

	c.senderID = senderID
	return nil
}

func (c *CreateDeliveryCommand) setPickupStreet(pickupStreet string) error {
	if pickupStreet == "" {
		return ErrPickupStreetIsRequired
	}

	c.pickupStreet = pickupStreet
	return nil
}

func (c *CreateDeliveryCommand) setDropoffStreet(dropoffStreet string) error {
	if dropoffStreet == "" {
		return ErrDropoffStreetIsRequired
	}

	c.dropoffStreet = dropoffStreet
	return nil
}

func (c *CreateDeliveryCommand) setPackages(packages []PackageSpec) error {
	if len(packages) == 0 {
		return ErrPackagesAreRequired
	}

	for _, spec := range packages {
		if err := spec.Size.Validate(); err != nil {
			return err
		}
		if spec.WeightGrams <= 0 {
			return errs.NewValueIsInvalidError("package weight")
		}
		if spec.DeclaredValueCents < 0 {
			return errs.NewValueIsInvalidError("declared value")
		}
	}

	c.packages = packages
	return nil
}

func (c *CreateDeliveryCommand) setKind(kind delivery.Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	c.kind = kind
	return nil
}

func (c *CreateDeliveryCommand) setInstrumentRef(instrumentRef string) error {
	if instrumentRef == "" {
		return ErrInstrumentRefIsRequired
	}

	c.instrumentRef = instrumentRef
	return nil
}

func (c *CreateDeliveryCommand) setRequestedAt(requestedAt time.Time) error {
	if requestedAt.IsZero() {
		return ErrRequestedAtIsRequired
	}

	c.requestedAt = requestedAt
	return nil
}
