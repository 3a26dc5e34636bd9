package delivery

import (
	"fmt"

	"dropmarket/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery.
// It implements a strictly ordered state machine: each forward transition is
// only legal from the immediately preceding state, and no transition leaves
// a terminal state.
//
// State transitions:
//
//	Requested ──> CourierAssigned ──> PickedUp ──> Delivered
//	    │                │                │
//	    └────────────────┴────────────────┴──> Cancelled / Failed
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Requested is the initial status: the delivery is priced and broadcast
	// to eligible couriers as a bidding opportunity.
	Requested

	// CourierAssigned indicates exactly one courier won the bidding race.
	CourierAssigned

	// PickedUp indicates the assigned courier collected the packages and
	// supplied proof of pickup.
	PickedUp

	// Delivered indicates the packages reached the recipient with proof of
	// delivery. The delivery is immutable afterwards except for payment and
	// review linkage.
	Delivered

	// Cancelled is a terminal state reached through the compensating
	// cancellation path before pickup.
	Cancelled

	// Failed is a terminal state for deliveries no courier accepted or that
	// could not be completed.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:         "Unknown",
		Requested:       "Requested",
		CourierAssigned: "CourierAssigned",
		PickedUp:        "PickedUp",
		Delivered:       "Delivered",
		Cancelled:       "Cancelled",
		Failed:          "Failed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Requested:       "Requested",
		CourierAssigned: "CourierAssigned",
		PickedUp:        "PickedUp",
		Delivered:       "Delivered",
		Cancelled:       "Cancelled",
		Failed:          "Failed",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements the fmt.Stringer interface and is safe to call on any Status
// value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Cancelled || s == Failed
}

// IsActive reports whether a courier is currently working the delivery.
// Location pings are only recorded while the delivery is active.
func (s Status) IsActive() bool {
	return s == CourierAssigned || s == PickedUp
}

// Assign transitions the status to CourierAssigned.
//
// This is the race point of the dispatch flow: concurrent acceptance
// attempts observe Requested only once, so every loser receives the
// "delivery already assigned" conflict and must not retry blindly.
func (s Status) Assign() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewConflictError("delivery", nil,
			fmt.Sprintf("delivery is in terminal status %s", s))
	}
	if s != Requested {
		return 0, errs.NewConflictError("delivery", nil, "delivery already assigned")
	}

	return CourierAssigned, nil
}

// PickUp transitions the status to PickedUp.
// Only legal from CourierAssigned; skipping states is rejected.
func (s Status) PickUp() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewConflictError("delivery", nil,
			fmt.Sprintf("delivery is in terminal status %s", s))
	}
	if s == PickedUp || s == Delivered {
		return 0, errs.NewConflictError("delivery", nil, "delivery already picked up")
	}
	if s != CourierAssigned {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to pick up from", s))
	}

	return PickedUp, nil
}

// Deliver transitions the status to Delivered.
// Only legal from PickedUp; a delivery can never reach Delivered without
// passing through CourierAssigned and PickedUp in order.
func (s Status) Deliver() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewConflictError("delivery", nil,
			fmt.Sprintf("delivery is in terminal status %s", s))
	}
	if s == Delivered {
		return 0, errs.NewConflictError("delivery", nil, "delivery already delivered")
	}
	if s != PickedUp {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to deliver from", s))
	}

	return Delivered, nil
}

// Cancel transitions the status to the terminal Cancelled state.
// Cancellation is a compensating transition, not a rollback of history;
// it is legal from any non-terminal, non-delivered state.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewConflictError("delivery", nil,
			fmt.Sprintf("delivery is in terminal status %s", s))
	}
	if s == Delivered {
		return 0, errs.NewConflictError("delivery", nil, "delivery already delivered")
	}

	return Cancelled, nil
}

// Fail transitions the status to the terminal Failed state.
// Legal from any non-terminal, non-delivered state.
func (s Status) Fail() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewConflictError("delivery", nil,
			fmt.Sprintf("delivery is in terminal status %s", s))
	}
	if s == Delivered {
		return 0, errs.NewConflictError("delivery", nil, "delivery already delivered")
	}

	return Failed, nil
}

// ValidateCanHaveCourier validates the consistency between delivery status
// and courier assignment: a courier reference is present iff the delivery is
// in CourierAssigned, PickedUp or Delivered. Terminal states drop the
// reference; the tracking history keeps the assignment on record.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	requiresCourier := s == CourierAssigned || s == PickedUp || s == Delivered

	if courier && !requiresCourier {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s))
	}

	if !courier && requiresCourier {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s))
	}

	return nil
}
