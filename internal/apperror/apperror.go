// Package apperror defines the application's error taxonomy.
//
// Services return these domain errors; the HTTP layer maps them to status
// codes with errors.Is/errors.As. Nothing below the handler layer knows
// about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors - the categories every failure in the app collapses into.
// errors.Is walks wrapped chains, so a service can return
// fmt.Errorf("registering: %w", apperror.Conflict(...)) and the handler
// still matches ErrConflict.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrPersistence  = errors.New("persistence error")
	ErrNetwork      = errors.New("network error")
)

// AppError carries a category sentinel plus a human-readable message.
// Field is set for validation errors so forms can highlight the input.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized returns an AppError for failed or missing authentication.
// Login deliberately uses one message for unknown email and wrong password
// so responses can't be used to enumerate accounts.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Persistence wraps a failed durable write. The ledger surfaces this after
// rolling back its in-memory state, so callers can offer a retry.
func Persistence(op string, err error) *AppError {
	return &AppError{
		Err:     ErrPersistence,
		Message: fmt.Sprintf("%s: %v", op, err),
	}
}

// Network wraps a transport-level failure (timeout, refused connection).
// Catalog reads degrade to empty lists on these; auth flows surface a retry.
func Network(op string, err error) *AppError {
	return &AppError{
		Err:     ErrNetwork,
		Message: fmt.Sprintf("%s: %v", op, err),
	}
}
