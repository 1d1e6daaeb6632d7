package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthorization is returned when the caller may not read the requested records.
	ErrAuthorization = errors.New("not authorized")

	// ErrValidation is returned for structurally invalid input.
	ErrValidation = errors.New("invalid input")
)

// AccessError describes a failed read authorization.
type AccessError struct {
	Table  string
	Level  Level
	Reason string
}

// Error implements the error interface.
func (e *AccessError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("read on %s: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("read: %s", e.Reason)
}

// Is reports whether target is ErrAuthorization.
func (e *AccessError) Is(target error) bool {
	return target == ErrAuthorization
}

// NewAccessError creates an AccessError.
func NewAccessError(table string, level Level, reason string) *AccessError {
	return &AccessError{Table: table, Level: level, Reason: reason}
}

// ValidationError describes invalid input.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsAuthorization reports whether err is an authorization failure.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrAuthorization)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
