package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors, one per failure class exposed at the HTTP boundary.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRateLimited         = errors.New("rate limited")
	ErrInternal            = errors.New("internal error")
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

// NotFound creates a 404 error. The message is the one returned to clients,
// e.g. "Job not found".
func NotFound(message string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 validation error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Conflict creates a 400 error for a duplicate resource. The job board API
// reports duplicates as bad requests rather than 409.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrConflict,
	}
}

// InvalidCredentials creates the generic 400 login failure. Callers must use
// it for both unknown emails and wrong passwords.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:    "INVALID_CREDENTIALS",
		Message: "Invalid credentials",
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidCredentials,
	}
}

// Unauthorized creates a 401 error (no credential presented).
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error (credential presented but rejected).
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// InvalidRefreshToken creates the 403 error returned by the refresh endpoint.
func InvalidRefreshToken() *AppError {
	return &AppError{
		Code:    "INVALID_REFRESH_TOKEN",
		Message: "Invalid refresh token",
		Status:  http.StatusForbidden,
		Err:     ErrInvalidRefreshToken,
	}
}

// RateLimited creates a 429 error.
func RateLimited(message string) *AppError {
	return &AppError{
		Code:    "RATE_LIMITED",
		Message: message,
		Status:  http.StatusTooManyRequests,
		Err:     ErrRateLimited,
	}
}

// Internal creates a 500 error. The wrapped error is never sent to clients.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// FromError converts err into an AppError. AppErrors anywhere in the chain
// are returned as is; bare sentinels get a generic message; anything else is
// an internal error.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound("Resource not found")
	case errors.Is(err, ErrInvalidInput):
		return InvalidInput("Invalid input")
	case errors.Is(err, ErrConflict):
		return Conflict("Resource already exists")
	case errors.Is(err, ErrInvalidCredentials):
		return InvalidCredentials()
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized("Unauthorized")
	case errors.Is(err, ErrInvalidRefreshToken):
		return InvalidRefreshToken()
	case errors.Is(err, ErrForbidden):
		return Forbidden("Forbidden")
	case errors.Is(err, ErrRateLimited):
		return RateLimited("Too many requests")
	default:
		return Internal(err)
	}
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
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrInvalidRefreshToken):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
