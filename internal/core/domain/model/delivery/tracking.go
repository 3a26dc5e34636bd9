package delivery

import (
	"errors"
	"time"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

// ErrTrackingRecordIsNotConstructed is returned when using an improperly
// initialized TrackingRecord.
var ErrTrackingRecordIsNotConstructed = errs.NewValueIsRequiredError(
	"tracking record must be created via NewTrackingRecord constructor")

// TrackingRecord is one append-only entry in a delivery's history: the
// status at the time of the entry, an optional location, an optional proof
// photo, and a milestone flag. Milestones mark state-machine transitions;
// non-milestone records are ancillary location pings.
//
// Tracking records are never mutated or deleted - they are the canonical
// history of a delivery.
type TrackingRecord struct { //nolint:recvcheck //using for validation
	status    Status
	point     *kernel.GeoPoint
	photoURL  string
	note      string
	milestone bool
	at        time.Time
	guard     guard.ConstructorGuard
}

// NewTrackingRecord creates a TrackingRecord for the given status.
// The point is optional (nil for records without a location); the photo URL
// and note may be empty.
func NewTrackingRecord(
	status Status,
	point *kernel.GeoPoint,
	photoURL string,
	note string,
	milestone bool,
	at time.Time,
) (TrackingRecord, error) {
	record := TrackingRecord{
		photoURL:  photoURL,
		note:      note,
		milestone: milestone,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		record.setStatus(status),
		record.setPoint(point),
		record.setAt(at),
	); err != nil {
		return TrackingRecord{}, err
	}

	return record, nil
}

// Validate checks if the TrackingRecord was properly constructed.
func (r TrackingRecord) Validate() error {
	return r.guard.Validate(ErrTrackingRecordIsNotConstructed)
}

// Status returns the delivery status the record was written under.
func (r TrackingRecord) Status() Status {
	return r.status
}

// Point returns the recorded location, or nil when none was supplied.
func (r TrackingRecord) Point() *kernel.GeoPoint {
	return r.point
}

// PhotoURL returns the proof photo reference, or "" when none was supplied.
func (r TrackingRecord) PhotoURL() string {
	return r.photoURL
}

// Note returns the free-text annotation, or "" when none was supplied.
func (r TrackingRecord) Note() string {
	return r.note
}

// IsMilestone reports whether the record marks a state-machine transition.
func (r TrackingRecord) IsMilestone() bool {
	return r.milestone
}

// At returns the timestamp of the record.
func (r TrackingRecord) At() time.Time {
	return r.at
}

func (r *TrackingRecord) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.status = status
	return nil
}

func (r *TrackingRecord) setPoint(point *kernel.GeoPoint) error {
	if point == nil {
		return nil
	}
	if err := point.Validate(); err != nil {
		return err
	}
	p := *point
	r.point = &p
	return nil
}

func (r *TrackingRecord) setAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("tracking record timestamp")
	}
	r.at = at
	return nil
}
