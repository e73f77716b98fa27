package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")
	ErrStorage           = errors.New("storage failure")
	ErrInternal          = errors.New("internal server error")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound wraps ErrNotFound with a resource-specific message.
func NotFound(message string) error {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// Conflict wraps ErrConflict with a resource-specific message.
func Conflict(message string) error {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}

// InvalidInput wraps ErrInvalidInput with a field-specific message.
func InvalidInput(message string) error {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrInvalidInput}
}

// Storage wraps ErrStorage with an operation-specific message.
func Storage(message string, err error) error {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: errors.Join(ErrStorage, err)}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	// ErrStorage and anything unclassified surface as internal errors
	return http.StatusInternalServerError
}
