package services

import "fmt"

// The service layer returns typed errors so handlers can map them onto
// HTTP statuses without string matching. The message is what ends up in
// the response body.

// ValidationError means the request was understood but the data is not
// acceptable (bad reference value, broken invariant, missing field).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError means the addressed entity does not exist (or is
// soft-deleted, which reads the same from outside).
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// AuthorizationError means the caller is authenticated but lacks the
// panel membership or permission the operation needs.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func NewAuthorizationError(format string, args ...interface{}) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError means the operation clashes with the current state of
// the record (duplicate link, locked mechanism, no-op update).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
