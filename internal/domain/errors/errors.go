package errors

import (
	"errors"
	"net/http"
)

// Domain errors. These form the closed taxonomy the engine returns to callers;
// storage-level error strings never cross this boundary.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidState      = errors.New("transition not legal from current status")
	ErrUnauthorized      = errors.New("actor not party to this resource")
	ErrConflict          = errors.New("duplicate or conflicting write")
	ErrTimeout           = errors.New("operation timed out")
	ErrStoreUnavailable  = errors.New("ledger store unavailable")
	ErrInvalidInput      = errors.New("invalid input")
	ErrBadRequest        = errors.New("bad request")
)

// IsBusinessError reports whether err is a business-rule violation that a
// retry cannot change. Transient errors (Timeout, StoreUnavailable) are not
// business errors and may be retried by the caller with backoff.
func IsBusinessError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrBadRequest):
		return true
	}
	return false
}

// AppError represents an application error with an HTTP status and a stable
// machine-readable code.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error.
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "ERR_NOT_FOUND", message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "ERR_BAD_REQUEST", message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, "ERR_UNAUTHORIZED", message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, "ERR_FORBIDDEN", message, ErrUnauthorized)
}

func InsufficientFunds(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, "ERR_INSUFFICIENT_FUNDS", message, ErrInsufficientFunds)
}

func InvalidState(message string) *AppError {
	return NewAppError(http.StatusConflict, "ERR_INVALID_STATE", message, ErrInvalidState)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, "ERR_CONFLICT", message, ErrConflict)
}

func Timeout(message string) *AppError {
	return NewAppError(http.StatusGatewayTimeout, "ERR_TIMEOUT", message, ErrTimeout)
}

func StoreUnavailable(err error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, "ERR_STORE_UNAVAILABLE", "ledger store unavailable", ErrStoreUnavailable)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "ERR_INTERNAL", "internal server error", err)
}
