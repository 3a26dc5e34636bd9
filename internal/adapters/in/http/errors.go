package http

import (
	"errors"
	"net/http"
	"strconv"

	"dropmarket/internal/core/ports"
	"dropmarket/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// retryAfterSeconds is the hint returned with responses caused by a
// retryable upstream failure.
const retryAfterSeconds = 5

// errorBody is the JSON error envelope of every non-2xx response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error onto an HTTP status and the error
// envelope. Unrecognized errors become opaque 500s so internals never leak.
func respondError(c echo.Context, err error) error {
	status, body, retryable := mapError(err)
	if retryable {
		c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}

	return c.JSON(status, body)
}

func mapError(err error) (int, errorBody, bool) {
	var decline *ports.DeclineError
	if errors.As(err, &decline) {
		return http.StatusPaymentRequired, errorBody{Code: decline.Code, Message: decline.Message}, false
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, errorBody{Code: "not_found", Message: err.Error()}, false
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusForbidden, errorBody{Code: "forbidden", Message: err.Error()}, false
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, errorBody{Code: "conflict", Message: err.Error()}, false
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, errorBody{Code: "validation_failed", Message: err.Error()}, false
	case errors.Is(err, errs.ErrExternalDependency):
		var depErr *errs.ExternalDependencyError
		retryable := errors.As(err, &depErr) && depErr.Retryable
		return http.StatusFailedDependency,
			errorBody{Code: "external_dependency", Message: err.Error()},
			retryable
	default:
		return http.StatusInternalServerError,
			errorBody{Code: "internal", Message: "internal server error"},
			false
	}
}
