package commands

import (
	"errors"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/review"
	"dropmarket/internal/pkg/guard"
)

var ErrSubmitReviewCommandIsNotConstructed = errors.New(
	"SubmitReviewCommand must be created via NewSubmitReviewCommand constructor",
)

// SubmitReviewCommand represents the sender's rating of the courier who
// completed their delivery. One review per (delivery, reviewer) pair.
type SubmitReviewCommand struct { //nolint:recvcheck //using for validation
	reviewID   kernel.UUID
	deliveryID kernel.UUID
	reviewerID kernel.UUID
	stars      int
	categories review.CategoryRatings
	comment    string
	anonymous  bool

	guard guard.ConstructorGuard
}

// NewSubmitReviewCommand creates a review submission command. Star and
// category ranges are enforced by the review entity at handling time; the
// command only requires well-formed identifiers.
func NewSubmitReviewCommand(
	reviewID kernel.UUID,
	deliveryID kernel.UUID,
	reviewerID kernel.UUID,
	stars int,
	categories review.CategoryRatings,
	comment string,
	anonymous bool,
) (SubmitReviewCommand, error) {
	command := SubmitReviewCommand{
		stars:      stars,
		categories: categories,
		comment:    comment,
		anonymous:  anonymous,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setReviewID(reviewID),
		command.setDeliveryID(deliveryID),
		command.setReviewerID(reviewerID),
	); err != nil {
		return SubmitReviewCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitReviewCommand) Validate() error {
	return c.guard.Validate(ErrSubmitReviewCommandIsNotConstructed)
}

// ReviewID returns the identifier assigned to the new review.
func (c SubmitReviewCommand) ReviewID() kernel.UUID {
	return c.reviewID
}

// DeliveryID returns the identifier of the reviewed delivery.
func (c SubmitReviewCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// ReviewerID returns the identifier of the sender writing the review.
func (c SubmitReviewCommand) ReviewerID() kernel.UUID {
	return c.reviewerID
}

// Stars returns the overall rating.
func (c SubmitReviewCommand) Stars() int {
	return c.stars
}

// Categories returns the per-category ratings.
func (c SubmitReviewCommand) Categories() review.CategoryRatings {
	return c.categories
}

// Comment returns the optional free-text comment.
func (c SubmitReviewCommand) Comment() string {
	return c.comment
}

// IsAnonymous reports whether the reviewer wants their identity hidden.
func (c SubmitReviewCommand) IsAnonymous() bool {
	return c.anonymous
}

func (c *SubmitReviewCommand) setReviewID(reviewID kernel.UUID) error {
	if err := reviewID.Validate(); err != nil {
		return err
	}

	c.reviewID = reviewID
	return nil
}

func (c *SubmitReviewCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *SubmitReviewCommand) setReviewerID(reviewerID kernel.UUID) error {
	if err := reviewerID.Validate(); err != nil {
		return err
	}

	c.reviewerID = reviewerID
	return nil
}
