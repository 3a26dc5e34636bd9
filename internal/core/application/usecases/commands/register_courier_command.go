package commands

import (
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

var (
	ErrRegisterCourierCommandIsNotConstructed = errors.New(
		"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
	)
	ErrCourierNameIsRequired  = errs.NewValueIsRequiredError("name")
	ErrCourierPhoneIsRequired = errs.NewValueIsRequiredError("phone")
)

// RegisterCourierCommand represents a courier signing up for the platform.
// Registered couriers start unverified and offline; they cannot take offers
// until an operator approves them and they go online.
type RegisterCourierCommand struct { //nolint:recvcheck //using for validation
	courierID       kernel.UUID
	name            string
	phone           string
	maxConcurrent   int
	serviceRadiusKm float64
	location        kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewRegisterCourierCommand creates a courier registration command.
func NewRegisterCourierCommand(
	courierID kernel.UUID,
	name string,
	phone string,
	maxConcurrent int,
	serviceRadiusKm float64,
	location kernel.GeoPoint,
) (RegisterCourierCommand, error) {
	command := RegisterCourierCommand{
		maxConcurrent:   maxConcurrent,
		serviceRadiusKm: serviceRadiusKm,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setCourierID(courierID),
		command.setName(name),
		command.setPhone(phone),
		command.setLocation(location),
	); err != nil {
		return RegisterCourierCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

// CourierID returns the identifier assigned to the new courier.
func (c RegisterCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Name returns the courier's display name.
func (c RegisterCourierCommand) Name() string {
	return c.name
}

// Phone returns the courier's contact phone.
func (c RegisterCourierCommand) Phone() string {
	return c.phone
}

// MaxConcurrent returns the courier's declared concurrent delivery limit.
func (c RegisterCourierCommand) MaxConcurrent() int {
	return c.maxConcurrent
}

// ServiceRadiusKm returns the courier's working radius in kilometers.
func (c RegisterCourierCommand) ServiceRadiusKm() float64 {
	return c.serviceRadiusKm
}

// Location returns the courier's starting location.
func (c RegisterCourierCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c *RegisterCourierCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}

func (c *RegisterCourierCommand) setName(name string) error {
	if name == "" {
		return ErrCourierNameIsRequired
	}

	c.name = name
	return nil
}

func (c *RegisterCourierCommand) setPhone(phone string) error {
	if phone == "" {
		return ErrCourierPhoneIsRequired
	}

	c.phone = phone
	return nil
}

func (c *RegisterCourierCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
