package domain

import (
	"errors"
	"fmt"
)

// Caller-facing errors. Services return these (possibly wrapped) and the
// transport layer maps them to status codes.
var (
	// validation
	ErrInvalidURL         = errors.New("invalid url")
	ErrInvalidAliasFormat = errors.New("custom alias must be 1-6 characters of letters, digits, '-' or '_'")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidID          = errors.New("invalid id")

	// conflict
	ErrEmailTaken    = errors.New("email already registered")
	ErrAliasConflict = errors.New("custom alias already in use")

	// authorization
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLinkNotFound       = errors.New("link not found")

	// feature / capacity
	ErrAliasFeatureDisabled = errors.New("custom aliases are disabled")
	ErrCodeSpaceExhausted   = errors.New("could not allocate a unique short code")

	ErrServiceUnavailable = errors.New("service unavailable")
)

// Store-level errors. Only repositories produce them and only services
// translate them into the errors above.
var (
	ErrDuplicateCode  = errors.New("duplicate short code")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func newValidationError(field string, err error, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg, Err: err}
}
