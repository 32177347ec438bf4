package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Standard sentinel errors for the storefront's error taxonomy: configuration
// errors block an action without contacting the network, validation errors are
// recoverable by user correction, and upstream errors are retryable by a new
// user action.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotConfigured  = errors.New("not configured")
	ErrUpstream       = errors.New("upstream request failed")
	ErrMissingPrice   = errors.New("missing price reference")
	ErrInternal       = errors.New("internal error")
	ErrServiceUnavail = errors.New("service unavailable")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// NotConfigured creates a 503 error for a missing or placeholder credential.
// Actions blocked by this error must not be retried automatically and must
// never reach the network.
func NotConfigured(what string) *AppError {
	return &AppError{
		Code:    "NOT_CONFIGURED",
		Message: fmt.Sprintf("%s is not configured", what),
		Status:  http.StatusServiceUnavailable,
		Err:     ErrNotConfigured,
	}
}

// Upstream creates a 502 error for a failed call to an external platform.
// The user may resubmit; no automatic retry happens.
func Upstream(service string, err error) *AppError {
	return &AppError{
		Code:    "UPSTREAM_ERROR",
		Message: fmt.Sprintf("%s request failed, please try again", service),
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrUpstream, err),
	}
}

// MissingPriceRef creates a 422 error naming the cart lines that lack a
// price-reference token. Checkout is blocked before any network call.
func MissingPriceRef(lines []string) *AppError {
	return &AppError{
		Code:    "MISSING_PRICE_REF",
		Message: fmt.Sprintf("cart lines without a price reference: %s", strings.Join(lines, ", ")),
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrMissingPrice,
	}
}

// ServiceUnavailable creates a 503 error with a custom message.
func ServiceUnavailable(message string) *AppError {
	return &AppError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     ErrServiceUnavail,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, ErrMissingPrice):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
