// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound = errors.New("entity not found")
	ErrNoData   = errors.New("no data for selected scope")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Recoverable user-input conditions
	ErrPeriodInput  = errors.New("insufficient period input")
	ErrAlreadySaved = errors.New("attendance already saved for this class and date")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRequestInFlight    = errors.New("request already in flight")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "calendar", "period", "reporting"
	Op      string // Operation that failed, e.g., "Resolve", "Export"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Attendance domain errors
var (
	ErrUnknownStatus  = NewDomainError("attendance", "ParseStatus", ErrInvalidInput, "unknown status code")
	ErrBadClassLabel  = NewDomainError("attendance", "ParseClass", ErrInvalidFormat, "class label must be grade digits followed by letters")
	ErrEmptyRoster    = NewDomainError("attendance", "Save", ErrNoData, "student roster is empty for this class")
	ErrNoExportRows   = NewDomainError("reporting", "Export", ErrNoData, "no rows to export for selected period")
	ErrInvalidQuarter = NewDomainError("period", "Resolve", ErrValueOutOfRange, "quarter index must be 1-4")
	ErrBadDateRange   = NewDomainError("shared", "NewDateRange", ErrInvalidInput, "range start must not be after range end")
)

// Provider errors
var (
	ErrProviderUnavailable = NewDomainError("provider", "Request", ErrServiceUnavailable, "report provider is unavailable")
	ErrProviderRejected    = NewDomainError("provider", "Request", ErrExternalService, "report provider rejected the request")
)

// IsNoData checks if the error is a "no data" condition.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}

// IsPeriodInput checks if the error is the recoverable insufficient-input condition.
func IsPeriodInput(err error) bool {
	return errors.Is(err, ErrPeriodInput)
}

// IsAlreadySaved checks if the error is the recoverable duplicate-save condition.
func IsAlreadySaved(err error) bool {
	return errors.Is(err, ErrAlreadySaved)
}

// IsValidation checks if the error is any caller-input problem.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
