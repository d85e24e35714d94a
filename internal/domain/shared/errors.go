package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error for transport mapping
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindValidation   ErrorKind = "VALIDATION"
	KindPrecondition ErrorKind = "PRECONDITION_FAILED"
	KindInvalidState ErrorKind = "INVALID_STATE"
	KindInternal     ErrorKind = "INTERNAL"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError reports a missing receipt, line, vendor or other resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(KindNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource))
}

// NewConflictError reports a duplicate or a delete blocked by dependents
func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// NewValidationError reports invalid input
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewPreconditionError reports an operation attempted before its precondition held
func NewPreconditionError(code, message string) *DomainError {
	return NewDomainError(KindPrecondition, code, message)
}

// NewInvalidStateError reports an operation not allowed in the current state
func NewInvalidStateError(code, message string) *DomainError {
	return NewDomainError(KindInvalidState, code, message)
}

// IsKind reports whether err is a DomainError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == kind
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError(KindNotFound, "NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError(KindConflict, "ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError(KindValidation, "INVALID_INPUT", "Invalid input provided")
	ErrPreconditionFailed = NewDomainError(KindPrecondition, "PRECONDITION_FAILED", "Operation precondition not met")
	ErrInvalidState       = NewDomainError(KindInvalidState, "INVALID_STATE", "Operation not allowed in current state")
)
