package http

import (
	"errors"
	"net/http"
	"testing"

	"dropmarket/internal/core/application/usecases/commands"
	"dropmarket/internal/core/domain/model/courier"
	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        errs.NewObjectNotFoundError("delivery", "d1"),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "required value",
			err:        errs.NewValueIsRequiredError("pickup street"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_failed",
		},
		{
			name:       "invalid value",
			err:        errs.NewValueIsInvalidError("kind"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_failed",
		},
		{
			name:       "out of range",
			err:        errs.NewValueIsOutOfRangeError("stars", 7, 1, 5),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_failed",
		},
		{
			name:       "forbidden",
			err:        errs.NewUnauthorizedError("sender", "cancel delivery"),
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name:       "conflict",
			err:        errs.NewConflictError("delivery", "d1", "already assigned"),
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
		},
		{
			name:       "ineligible courier maps to conflict",
			err:        &commands.IneligibleError{Reason: courier.ReasonAtCapacity},
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
		},
		{
			name:       "payment decline",
			err:        &ports.DeclineError{Code: "insufficient_funds", Message: "insufficient funds"},
			wantStatus: http.StatusPaymentRequired,
			wantCode:   "insufficient_funds",
		},
		{
			name:       "external dependency",
			err:        errs.NewExternalDependencyError("payment", false),
			wantStatus: http.StatusFailedDependency,
			wantCode:   "external_dependency",
		},
		{
			name:       "unknown error is an opaque 500",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, _ := mapError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestMapError_RetryableDependencyFailure(t *testing.T) {
	status, _, retryable := mapError(errs.NewExternalDependencyError("geo", true))

	assert.Equal(t, http.StatusFailedDependency, status)
	assert.True(t, retryable)
}

func TestMapError_InternalMessageIsOpaque(t *testing.T) {
	_, body, _ := mapError(errors.New("secret connection string"))

	assert.Equal(t, "internal server error", body.Message)
}
