// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation    = errors.New("validation error")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrNegativeValue = errors.New("value cannot be negative")
	ErrInvalidFormat = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Statistics errors
	ErrNoStatistics = errors.New("no statistics available")

	// Storage errors: driver failures are wrapped with this kind and propagated
	// verbatim to the caller. The engine never retries storage operations.
	ErrStorage = errors.New("storage failure")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "contest", "user", "participation"
	Op      string // Operation that failed, e.g., "Create", "Search"
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

// Contest domain errors
var (
	ErrContestNotFound      = NewDomainError("contest", "Find", ErrNotFound, "contest not found")
	ErrInvalidContestID     = NewDomainError("contest", "Validate", ErrInvalidID, "invalid contest ID")
	ErrInvalidContestStatus = NewDomainError("contest", "Validate", ErrInvalidInput, "invalid contest status")
	ErrContestNotApproved   = NewDomainError("contest", "CheckStatus", ErrInvalidState, "contest is not approved")
	ErrContestDuePassed     = NewDomainError("contest", "CheckDue", ErrInvalidState, "contest deadline has passed")
)

// User domain errors
var (
	ErrUserNotFound      = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrUserAlreadyExists = NewDomainError("user", "Create", ErrAlreadyExists, "user already exists")
	ErrInvalidEmail      = NewDomainError("user", "Validate", ErrInvalidFormat, "invalid email")
	ErrInvalidRole       = NewDomainError("user", "Validate", ErrInvalidInput, "invalid role")
)

// Participation domain errors
var (
	ErrParticipationNotFound = NewDomainError("participation", "Find", ErrNotFound, "participation not found")
	ErrAlreadyWinner         = NewDomainError("participation", "PickWinner", ErrInvalidState, "winner already picked")
	ErrNothingSubmitted      = NewDomainError("participation", "Submit", ErrEmptyValue, "submission payload is empty")
)

// Statistics errors
var (
	// ErrNoParticipations is returned when a user has no participations at all.
	// This is a distinct outcome from "zero wins": it means no statistics exist.
	ErrNoParticipations = NewDomainError("stats", "WinRate", ErrNoStatistics, "user has no participations")
)

// External service errors
var (
	ErrPaymentUnavailable = NewDomainError("payments", "Request", ErrServiceUnavailable, "payment provider is unavailable")
	ErrPaymentTimeout     = NewDomainError("payments", "Request", ErrTimeout, "payment provider request timeout")
	ErrPaymentRejected    = NewDomainError("payments", "Confirm", ErrExternalService, "payment was rejected by provider")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if the error is an "already exists" conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsNoStatistics checks if the error signals absence of statistics
// (as opposed to statistics that are legitimately zero).
func IsNoStatistics(err error) bool {
	return errors.Is(err, ErrNoStatistics)
}

// IsStorage checks if the error is a storage-layer failure.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
