// Package common defines shared constants and sentinel errors used across
// client and server layers of bookshelf. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrValidation     = errors.New("validation error")

	// Session errors.
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrUnknownUser  = errors.New("unknown user")

	// Credential errors. ErrUserNotFound and ErrBadPassword are only ever
	// returned wrapped in ErrInvalidCredentials.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrBadPassword        = errors.New("bad password")
	ErrDuplicateEmail     = errors.New("email already registered")

	// Catalog and library errors.
	ErrBookNotFound     = errors.New("book not found")
	ErrEntryNotFound    = errors.New("book not found in library")
	ErrAlreadyInLibrary = errors.New("book already in library")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidRating    = errors.New("invalid rating")
)

// ValidationError carries a user-facing message for rejected input and
// matches ErrValidation under errors.Is.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
