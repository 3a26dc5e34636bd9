// Package review provides the domain model of courier reviews. A review is
// written once per (delivery, reviewer) after the delivery completed; the
// uniqueness is enforced by the review repository and surfaced as a
// conflict, never an overwrite.
package review

import (
	"errors"
	"unicode/utf8"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/pkg/errs"
	"dropmarket/internal/pkg/guard"
)

const (
	minStars = 1
	maxStars = 5

	// maxCommentRunes bounds the free-text comment.
	maxCommentRunes = 1000
)

// ErrReviewIsNotConstructed is returned when using an improperly
// initialized Review.
var ErrReviewIsNotConstructed = errors.New("Review must be created via NewReview constructor")

// CategoryRatings holds the per-category stars of a review. Every category
// uses the same 1..5 scale as the overall rating.
type CategoryRatings struct {
	Politeness int
	Speed      int
	Care       int
}

// Validate checks every category rating against the 1..5 scale.
func (c CategoryRatings) Validate() error {
	for name, stars := range map[string]int{
		"politeness": c.Politeness,
		"speed":      c.Speed,
		"care":       c.Care,
	} {
		if stars < minStars || stars > maxStars {
			return errs.NewValueIsOutOfRangeError(name, stars, minStars, maxStars)
		}
	}
	return nil
}

// Review is one sender's rating of the courier who worked their delivery.
// Only the overall stars feed the courier's rating aggregate; the category
// ratings are informational.
type Review struct {
	id         kernel.UUID
	delivery   kernel.UUID
	reviewer   kernel.UUID
	courier    kernel.UUID
	stars      int
	categories CategoryRatings
	comment    string
	anonymous  bool
	guard      guard.ConstructorGuard
}

// NewReview creates a Review of the given courier for the given delivery.
func NewReview(
	id kernel.UUID,
	deliveryID kernel.UUID,
	reviewerID kernel.UUID,
	courierID kernel.UUID,
	stars int,
	categories CategoryRatings,
	comment string,
	anonymous bool,
) (*Review, error) {
	review := &Review{
		anonymous: anonymous,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		review.setID(id),
		review.setDelivery(deliveryID),
		review.setReviewer(reviewerID),
		review.setCourier(courierID),
		review.setStars(stars),
		review.setCategories(categories),
		review.setComment(comment),
	); err != nil {
		return nil, err
	}

	return review, nil
}

// RestoreReview reconstructs a Review from persistent storage.
func RestoreReview(
	id kernel.UUID,
	deliveryID kernel.UUID,
	reviewerID kernel.UUID,
	courierID kernel.UUID,
	stars int,
	categories CategoryRatings,
	comment string,
	anonymous bool,
) (*Review, error) {
	return NewReview(id, deliveryID, reviewerID, courierID, stars, categories, comment, anonymous)
}

// Validate checks if the Review was properly constructed via NewReview.
func (r *Review) Validate() error {
	if r == nil {
		return ErrReviewIsNotConstructed
	}
	return r.guard.Validate(ErrReviewIsNotConstructed)
}

// ID returns the review's unique identifier.
func (r *Review) ID() kernel.UUID {
	return r.id
}

// Delivery returns the reviewed delivery's identifier.
func (r *Review) Delivery() kernel.UUID {
	return r.delivery
}

// Reviewer returns the identifier of the sender who wrote the review.
func (r *Review) Reviewer() kernel.UUID {
	return r.reviewer
}

// Courier returns the identifier of the reviewed courier.
func (r *Review) Courier() kernel.UUID {
	return r.courier
}

// Stars returns the overall rating on the 1..5 scale.
func (r *Review) Stars() int {
	return r.stars
}

// Categories returns the per-category ratings.
func (r *Review) Categories() CategoryRatings {
	return r.categories
}

// Comment returns the free-text comment, or "" when none was written.
func (r *Review) Comment() string {
	return r.comment
}

// IsAnonymous reports whether the reviewer's identity is hidden from the
// courier.
func (r *Review) IsAnonymous() bool {
	return r.anonymous
}

func (r *Review) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Review) setDelivery(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("delivery ID", err)
	}
	r.delivery = deliveryID
	return nil
}

func (r *Review) setReviewer(reviewerID kernel.UUID) error {
	if err := reviewerID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("reviewer ID", err)
	}
	r.reviewer = reviewerID
	return nil
}

func (r *Review) setCourier(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("courier ID", err)
	}
	r.courier = courierID
	return nil
}

func (r *Review) setStars(stars int) error {
	if stars < minStars || stars > maxStars {
		return errs.NewValueIsOutOfRangeError("stars", stars, minStars, maxStars)
	}
	r.stars = stars
	return nil
}

func (r *Review) setCategories(categories CategoryRatings) error {
	if err := categories.Validate(); err != nil {
		return err
	}
	r.categories = categories
	return nil
}

func (r *Review) setComment(comment string) error {
	if utf8.RuneCountInString(comment) > maxCommentRunes {
		return errs.NewValueIsOutOfRangeError("comment length",
			utf8.RuneCountInString(comment), 0, maxCommentRunes)
	}
	r.comment = comment
	return nil
}
