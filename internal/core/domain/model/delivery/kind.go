package delivery

import (
	"fmt"

	"dropmarket/internal/pkg/errs"
)

// Kind represents the service level requested for a delivery.
// It drives the surcharge component of the price quote.
type Kind int

const (
	// KindUnknown represents an invalid or undefined kind.
	KindUnknown Kind = iota

	// KindStandard is the default service level with no surcharge.
	KindStandard

	// KindExpress is a faster service level with a fixed surcharge.
	KindExpress

	// KindPriority is the highest service level with the largest surcharge.
	KindPriority
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown:  "Unknown",
		KindStandard: "standard",
		KindExpress:  "express",
		KindPriority: "priority",
	}
}

// KindFromString parses a delivery kind from its wire representation.
func KindFromString(s string) (Kind, error) {
	for kind, str := range getKindStrings() {
		if str == s && kind != KindUnknown {
			return kind, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("delivery kind",
		fmt.Errorf("%q is not a valid delivery kind", s))
}

// Validate checks if the Kind value is valid.
func (k Kind) Validate() error {
	if k != KindStandard && k != KindExpress && k != KindPriority {
		return errs.NewValueIsInvalidErrorWithCause("delivery kind",
			fmt.Errorf("%d is not a valid delivery kind", k))
	}
	return nil
}

// String returns the wire representation of the kind.
// Implements the fmt.Stringer interface.
func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "Unknown"
}

// PaymentStatus represents the settlement state of a delivery.
type PaymentStatus int

const (
	// PaymentUnknown represents an invalid or undefined payment status.
	PaymentUnknown PaymentStatus = iota

	// PaymentPending means the delivery has not been charged yet.
	PaymentPending

	// PaymentPaid means exactly one completed transaction settled the
	// delivery. A paid delivery is never charged again.
	PaymentPaid

	// PaymentFailed means the last settlement attempt was declined.
	// The caller may retry; the status returns to Paid only through a
	// successful charge.
	PaymentFailed
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown: "Unknown",
		PaymentPending: "pending",
		PaymentPaid:    "paid",
		PaymentFailed:  "failed",
	}
}

// Validate checks if the PaymentStatus value is valid.
func (p PaymentStatus) Validate() error {
	if p != PaymentPending && p != PaymentPaid && p != PaymentFailed {
		return errs.NewValueIsInvalidErrorWithCause("payment status",
			fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

// String returns the wire representation of the payment status.
// Implements the fmt.Stringer interface.
func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "Unknown"
}

// MarkPaid flips the payment status to Paid.
// A delivery that is already paid must never be charged again, so the
// repeated flip is a conflict the caller can branch on.
func (p PaymentStatus) MarkPaid() (PaymentStatus, error) {
	if p == PaymentPaid {
		return 0, errs.NewConflictError("payment", nil, "payment already processed")
	}
	return PaymentPaid, nil
}

// MarkFailed records a declined settlement attempt.
func (p PaymentStatus) MarkFailed() (PaymentStatus, error) {
	if p == PaymentPaid {
		return 0, errs.NewConflictError("payment", nil, "payment already processed")
	}
	return PaymentFailed, nil
}
