package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrConflict
	ErrInternal
	ErrServiceUnavailable
	ErrSeedLoad
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewConflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// NewServiceUnavailable wraps a failed call to an external decisioning
// service. Callers treat it as recoverable per-operation.
func NewServiceUnavailable(service string, err error) *AppError {
	return &AppError{
		Code:    ErrServiceUnavailable,
		Message: fmt.Sprintf("%s service unavailable", service),
		Err:     err,
	}
}

// NewSeedLoad wraps a failure to fetch or decode seed documents.
func NewSeedLoad(err error) *AppError {
	return &AppError{
		Code:    ErrSeedLoad,
		Message: "failed to load seed data",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

// IsNotFound reports whether err carries the not-found code.
func IsNotFound(err error) bool {
	return hasCode(err, ErrNotFound)
}

// IsConflict reports whether err carries the conflict code.
func IsConflict(err error) bool {
	return hasCode(err, ErrConflict)
}

// IsServiceUnavailable reports whether err carries the service-unavailable code.
func IsServiceUnavailable(err error) bool {
	return hasCode(err, ErrServiceUnavailable)
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
