// Package domain holds the horoscope entities and the business errors raised
// around them. Errors here describe business failures only; adapters decide
// how they surface over HTTP.
package domain

import (
	"errors"
	"fmt"
)

// Sentinels. Every typed error below unwraps to exactly one of them.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the request clashes with current state,
	// for example spending more points than the balance holds.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates the input broke a business rule.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the operation is switched off or not permitted.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized indicates the caller could not be identified.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// ReasonNoPoints is the conflict reason used when a balance cannot cover a debit.
const ReasonNoPoints = "no_points"

// NotFoundError names the missing entity, such as a sign or a profile.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError is a request that clashes with stored state.
type ConflictError struct {
	Entity  string
	Reason  string
	Details string
}

func (e *ConflictError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s conflict: %s (%s)", e.Entity, e.Reason, e.Details)
	}

	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// NewInsufficientPointsError reports a debit larger than the current balance.
func NewInsufficientPointsError(balance, cost int64) error {
	return &ConflictError{
		Entity:  "points",
		Reason:  ReasonNoPoints,
		Details: fmt.Sprintf("balance %d, cost %d", balance, cost),
	}
}

// ValidationError is input that broke a rule. Value holds the offending input when known.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// ForbiddenError is an operation that is switched off or not allowed for the caller.
type ForbiddenError struct {
	Operation string
	Reason    string
}

func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("operation %q forbidden: %s", e.Operation, e.Reason)
	}

	return fmt.Sprintf("operation %q forbidden", e.Operation)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// UnauthorizedError reports a missing or rejected caller identity.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	if e.Reason != "" {
		return "unauthorized: " + e.Reason
	}

	return "unauthorized"
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

func NewUnauthorizedError(reason string) error {
	return &UnauthorizedError{Reason: reason}
}

// UnavailableError names the dependency that could not serve the call.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// Predicates for the sentinel categories. Each one sees through wrapping.

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// IsInsufficientPoints reports whether err is a points conflict raised by a debit.
func IsInsufficientPoints(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict) && conflict.Reason == ReasonNoPoints
}
