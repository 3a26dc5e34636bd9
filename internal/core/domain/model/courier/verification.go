package courier

import (
	"fmt"

	"dropmarket/internal/pkg/errs"
)

// VerificationStatus represents the onboarding state of a courier.
// Only approved couriers may accept deliveries.
type VerificationStatus int

const (
	// VerificationUnknown represents an invalid or undefined status.
	VerificationUnknown VerificationStatus = iota

	// VerificationPending means the courier registered but was not reviewed
	// yet.
	VerificationPending

	// VerificationApproved means the courier passed the review and may work.
	VerificationApproved

	// VerificationRejected means the courier failed the review.
	VerificationRejected
)

func getVerificationStatusStrings() map[VerificationStatus]string {
	return map[VerificationStatus]string{
		VerificationUnknown:  "Unknown",
		VerificationPending:  "pending",
		VerificationApproved: "approved",
		VerificationRejected: "rejected",
	}
}

// Validate checks if the VerificationStatus value is valid.
func (v VerificationStatus) Validate() error {
	if v != VerificationPending && v != VerificationApproved && v != VerificationRejected {
		return errs.NewValueIsInvalidErrorWithCause("verification status",
			fmt.Errorf("%d is not a valid verification status", v))
	}
	return nil
}

// String returns the wire representation of the status.
// Implements the fmt.Stringer interface.
func (v VerificationStatus) String() string {
	if str, ok := getVerificationStatusStrings()[v]; ok {
		return str
	}
	return "Unknown"
}

// Approve transitions the status to Approved. Only legal from Pending.
func (v VerificationStatus) Approve() (VerificationStatus, error) {
	if v != VerificationPending {
		return 0, errs.NewConflictError("courier", nil,
			fmt.Sprintf("courier verification already resolved to %s", v))
	}
	return VerificationApproved, nil
}

// Reject transitions the status to Rejected. Only legal from Pending.
func (v VerificationStatus) Reject() (VerificationStatus, error) {
	if v != VerificationPending {
		return 0, errs.NewConflictError("courier", nil,
			fmt.Sprintf("courier verification already resolved to %s", v))
	}
	return VerificationRejected, nil
}
