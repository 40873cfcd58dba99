// Package apperror defines the error taxonomy shared by the store, the services
// and the HTTP boundary.
//
// Every failure a caller is expected to react to is an *AppError wrapping one of
// the sentinel errors below. Callers match with errors.Is(err, apperror.ErrXxx)
// and the handler layer maps the sentinel to a status code.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrInvalidKind   = errors.New("invalid kind")
	ErrInvalidStatus = errors.New("invalid status")
	ErrDuplicateName = errors.New("duplicate name")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrDatabase      = errors.New("database error")
	ErrConnection    = errors.New("connection error")
	ErrMigration     = errors.New("migration error")
)

type AppError struct {
	Err     error    // sentinel, one of the Err* values above
	Message string   // Human-readable error message
	Field   string   // Optional: field causing the error
	Value   string   // Optional: rejected value
	Allowed []string // Optional: accepted values for enum-like fields
	Cause   error    // Optional: backend detail, logged but never shown to clients
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

// InvalidKind reports a kind that has no matching category.
func InvalidKind(kind string) *AppError {
	return &AppError{
		Err:     ErrInvalidKind,
		Message: fmt.Sprintf("invalid kind `%s`, not found in categories", kind),
		Field:   "kind",
		Value:   kind,
	}
}

// InvalidStatus reports a status outside the allowed enumeration.
func InvalidStatus(status string, allowed []string) *AppError {
	return &AppError{
		Err:     ErrInvalidStatus,
		Message: fmt.Sprintf("invalid status `%s`, allowed: %s", status, strings.Join(allowed, ", ")),
		Field:   "status",
		Value:   status,
		Allowed: allowed,
	}
}

// DuplicateName reports a uniqueness violation on a category or tag name.
func DuplicateName(resource, name string) *AppError {
	return &AppError{
		Err:     ErrDuplicateName,
		Message: fmt.Sprintf("%s `%s` already exists", resource, name),
		Field:   "name",
		Value:   name,
	}
}

// Conflict reports an operation blocked by the current state of another resource.
func Conflict(resource, reason string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("cannot modify %s: %s", resource, reason),
	}
}

func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "unauthorized",
	}
}

// Database hides a backend failure behind a generic message. The underlying error
// is kept in Cause so the boundary can log it.
func Database(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrDatabase,
		Message: "database failure while " + op,
		Cause:   cause,
	}
}

func Connection(cause error) *AppError {
	return &AppError{
		Err:     ErrConnection,
		Message: fmt.Sprintf("connecting to database: %v", cause),
		Cause:   cause,
	}
}

func Migration(cause error) *AppError {
	return &AppError{
		Err:     ErrMigration,
		Message: fmt.Sprintf("applying migrations: %v", cause),
		Cause:   cause,
	}
}
