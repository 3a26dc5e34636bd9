package errs_test

import (
	"errors"
	"testing"

	"dropmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictError(t *testing.T) {
	t.Run("NewConflictError", func(t *testing.T) {
		err := errs.NewConflictError("delivery", "123", "delivery is already assigned")

		assert.Equal(t, "delivery", err.Resource)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, "delivery is already assigned", err.Reason)
		require.NoError(t, err.Cause)
		assert.Equal(t, "conflict: delivery is already assigned", err.Error())
		assert.Equal(t, errs.ErrConflict, err.Unwrap())
	})

	t.Run("NewConflictErrorWithCause", func(t *testing.T) {
		cause := errors.New("duplicated key not allowed")
		err := errs.NewConflictErrorWithCause("review", "42", "review already exists", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"conflict: resource is: review, ID is: 42, reason is: review already exists (cause: duplicated key not allowed)",
			err.Error())
		assert.Equal(t, errs.ErrConflict, err.Unwrap())
	})
}

func TestUnauthorizedError(t *testing.T) {
	t.Run("NewUnauthorizedError", func(t *testing.T) {
		err := errs.NewUnauthorizedError("courier 123", "confirm pickup")

		assert.Equal(t, "courier 123", err.Actor)
		assert.Equal(t, "confirm pickup", err.Action)
		require.NoError(t, err.Cause)
		assert.Equal(t, "unauthorized: courier 123 is not allowed to confirm pickup", err.Error())
		assert.Equal(t, errs.ErrUnauthorized, err.Unwrap())
	})

	t.Run("NewUnauthorizedErrorWithCause", func(t *testing.T) {
		cause := errors.New("token expired")
		err := errs.NewUnauthorizedErrorWithCause("sender 7", "cancel delivery", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"unauthorized: sender 7 is not allowed to cancel delivery (cause: token expired)",
			err.Error())
		assert.Equal(t, errs.ErrUnauthorized, err.Unwrap())
	})
}

func TestExternalDependencyError(t *testing.T) {
	t.Run("NewExternalDependencyError", func(t *testing.T) {
		err := errs.NewExternalDependencyError("routing", true)

		assert.Equal(t, "routing", err.Service)
		assert.True(t, err.Retryable)
		require.NoError(t, err.Cause)
		assert.Equal(t, "external dependency failed: routing", err.Error())
		assert.Equal(t, errs.ErrExternalDependency, err.Unwrap())
	})

	t.Run("NewExternalDependencyErrorWithCause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := errs.NewExternalDependencyErrorWithCause("payment gateway", false, cause)

		assert.Equal(t, cause, err.Cause)
		assert.False(t, err.Retryable)
		assert.Equal(t, "external dependency failed: payment gateway (cause: connection refused)", err.Error())
		assert.Equal(t, errs.ErrExternalDependency, err.Unwrap())
	})
}

func TestDomainSentinelErrors(t *testing.T) {
	t.Run("errors.Is works with domain errors", func(t *testing.T) {
		require.ErrorIs(t, errs.NewConflictError("delivery", "1", "already assigned"), errs.ErrConflict)
		require.ErrorIs(t, errs.NewUnauthorizedError("courier 1", "deliver"), errs.ErrUnauthorized)
		require.ErrorIs(t, errs.NewExternalDependencyError("geo", true), errs.ErrExternalDependency)
	})

	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "conflict", errs.ErrConflict.Error())
		assert.Equal(t, "unauthorized", errs.ErrUnauthorized.Error())
		assert.Equal(t, "external dependency failed", errs.ErrExternalDependency.Error())
	})

	t.Run("newlines are sanitized", func(t *testing.T) {
		err := errs.NewUnauthorizedError("courier\n123", "confirm\npickup")
		assert.NotContains(t, err.Error(), "\n")
		assert.Contains(t, err.Error(), "courier 123")
	})
}
