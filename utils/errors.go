package utils

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure crossing a service boundary
type ErrorKind string

const (
	KindNotFound   ErrorKind = "NotFound"
	KindValidation ErrorKind = "ValidationError"
	KindSystem     ErrorKind = "SystemError"
)

// ServiceError is the only error type services hand back to callers.
// Message is safe to show to a client; Err carries the internal cause.
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports that an id did not resolve
func NewNotFoundError(code, message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Code: code, Message: message}
}

// NewValidationError reports malformed or unknown input
func NewValidationError(code, message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Code: code, Message: message}
}

// NewSystemError wraps an unexpected failure. The client only ever sees
// the generic message.
func NewSystemError(code string, err error) *ServiceError {
	return &ServiceError{
		Kind:    KindSystem,
		Code:    code,
		Message: "An internal error occurred",
		Err:     err,
	}
}

// KindOf returns the taxonomy member of err. Anything that is not a
// ServiceError counts as a system failure.
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindSystem
}

// AsServiceError converts any error into a ServiceError
func AsServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return NewSystemError("INTERNAL_ERROR", err)
}
