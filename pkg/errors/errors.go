package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAlreadyPresent   = errors.New("already present")
	ErrInvalidInput     = errors.New("invalid input")
	ErrBlocked          = errors.New("account blocked")
	ErrNetwork          = errors.New("network failure")
	ErrServer           = errors.New("server error")
	ErrInternal         = errors.New("internal error")
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

// NotAuthenticated creates a 401 error for operations that require a
// logged-in user.
func NotAuthenticated(message string) *AppError {
	return &AppError{
		Code:    "NOT_AUTHENTICATED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrNotAuthenticated,
	}
}

// AlreadyPresent signals that an item with the same id is already in the
// collection. It is informational, not a failure: callers report it through
// the notification channel and continue.
func AlreadyPresent(message string) *AppError {
	return &AppError{
		Code:    "ALREADY_PRESENT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrAlreadyPresent,
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

// Blocked creates a 403 error for a blocked account.
func Blocked(message string) *AppError {
	return &AppError{
		Code:    "ACCOUNT_BLOCKED",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrBlocked,
	}
}

// Network wraps a transport-level failure (connection refused, timeout, DNS).
func Network(err error) *AppError {
	return &AppError{
		Code:    "NETWORK_ERROR",
		Message: "could not reach the record store",
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrNetwork, err),
	}
}

// Server wraps a 5xx response from the record store.
func Server(status int, message string) *AppError {
	return &AppError{
		Code:    "SERVER_ERROR",
		Message: fmt.Sprintf("record store returned %d: %s", status, message),
		Status:  http.StatusBadGateway,
		Err:     ErrServer,
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

// IsNotFound reports whether the error marks a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInformational reports whether the error is a non-fatal informational
// outcome (currently only AlreadyPresent) rather than a real failure.
func IsInformational(err error) bool {
	return errors.Is(err, ErrAlreadyPresent)
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
	case errors.Is(err, ErrAlreadyPresent):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBlocked):
		return http.StatusForbidden
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrServer):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
