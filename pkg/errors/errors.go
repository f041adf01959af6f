package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrNotFound        = NewNotFoundError("resource", "resource not found")
	ErrInvalidArgument = NewValidationError("", "invalid argument")
	ErrInternal        = NewInternalError("internal server error", nil)
)

// ValidationError represents a client-input failure such as a missing or malformed id
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the default HTTP status for this error.
// Routes that report a missing record as a bad request override it.
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// NoRowsAffectedError is returned when a mutation reached the store but
// changed nothing.
type NoRowsAffectedError struct {
	Message string
}

// NewNoRowsAffectedError creates a new no rows affected error
func NewNoRowsAffectedError(message string) *NoRowsAffectedError {
	return &NoRowsAffectedError{Message: message}
}

// Error implements the error interface
func (e *NoRowsAffectedError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *NoRowsAffectedError) HTTPStatus() int {
	return http.StatusBadRequest
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser interface for errors that can provide an HTTP status
type HTTPStatuser interface {
	HTTPStatus() int
}

// StatusOf returns the HTTP status carried by err, or 500 when err has none.
func StatusOf(err error) int {
	var s HTTPStatuser
	if errors.As(err, &s) {
		return s.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-facing message of err. For internal errors
// this is the operation message without the underlying cause.
func MessageOf(err error) string {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.Message
	}
	return err.Error()
}

// DetailOf returns the underlying cause text of an internal error, if any.
func DetailOf(err error) string {
	var ie *InternalError
	if errors.As(err, &ie) && ie.Err != nil {
		return ie.Err.Error()
	}
	return ""
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
