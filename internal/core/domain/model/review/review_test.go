package review_test

import (
	"strings"
	"testing"

	"dropmarket/internal/core/domain/model/kernel"
	"dropmarket/internal/core/domain/model/review"
	"dropmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCategories() review.CategoryRatings {
	return review.CategoryRatings{Politeness: 5, Speed: 4, Care: 5}
}

func TestNewReview(t *testing.T) {
	t.Run("should create a valid review", func(t *testing.T) {
		r, err := review.NewReview(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			4, validCategories(), "quick and careful", false)

		require.NoError(t, err)
		require.NoError(t, r.Validate())
		assert.Equal(t, 4, r.Stars())
		assert.False(t, r.IsAnonymous())
	})

	t.Run("should reject stars outside 1..5", func(t *testing.T) {
		for _, stars := range []int{0, 6, -1} {
			_, err := review.NewReview(
				kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
				stars, validCategories(), "", false)

			require.Error(t, err)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("should reject invalid category ratings", func(t *testing.T) {
		_, err := review.NewReview(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			4, review.CategoryRatings{Politeness: 5, Speed: 0, Care: 5}, "", false)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject comments over 1000 runes", func(t *testing.T) {
		_, err := review.NewReview(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			4, validCategories(), strings.Repeat("я", 1001), false)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should accept a comment of exactly 1000 runes", func(t *testing.T) {
		_, err := review.NewReview(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			4, validCategories(), strings.Repeat("я", 1000), false)

		require.NoError(t, err)
	})

	t.Run("should reject direct struct instantiation", func(t *testing.T) {
		var r review.Review

		require.ErrorIs(t, r.Validate(), review.ErrReviewIsNotConstructed)
	})
}
