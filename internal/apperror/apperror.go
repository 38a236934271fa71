// Package apperror defines the typed errors shared by the gateways, services and HTTP layer.
//
// Three kinds of failures are distinguished:
//   - ValidationError: data violates a field constraint. Status 400 for caller data,
//     500 for data read back from the store.
//   - RequestError: a malformed or incomplete request with an explicit HTTP status and
//     optional response headers.
//   - everything else is a runtime error, wrapped with github.com/pkg/errors.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError signals that a value violates a field constraint.
type ValidationError struct {
	Message string
	Status  int
}

// NewValidation returns a ValidationError caused by caller supplied data (HTTP 400).
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
		Status:  http.StatusBadRequest,
	}
}

// NewStoredValidation returns a ValidationError for a malformed stored row (HTTP 500).
func NewStoredValidation(format string, args ...any) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
		Status:  http.StatusInternalServerError,
	}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequestError is a malformed or incomplete request. It carries the HTTP status to answer
// with and optional response headers.
type RequestError struct {
	Message string
	Status  int
	Headers map[string]string
	Cause   error
}

// NewRequest returns a RequestError with the given status.
func NewRequest(status int, format string, args ...any) *RequestError {
	return &RequestError{
		Message: fmt.Sprintf(format, args...),
		Status:  status,
	}
}

// BadRequest returns a 400 RequestError.
func BadRequest(format string, args ...any) *RequestError {
	return NewRequest(http.StatusBadRequest, format, args...)
}

// NotFound returns a 404 RequestError.
func NotFound(format string, args ...any) *RequestError {
	return NewRequest(http.StatusNotFound, format, args...)
}

// NotImplemented returns a 501 RequestError.
func NotImplemented(format string, args ...any) *RequestError {
	return NewRequest(http.StatusNotImplemented, format, args...)
}

func (e *RequestError) Error() string {
	return e.Message
}

// Unwrap returns the cause.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// WithCause sets the cause and returns the error for chaining.
func (e *RequestError) WithCause(cause error) *RequestError {
	e.Cause = cause
	return e
}

// AddHeader adds a response header sent together with the error.
func (e *RequestError) AddHeader(key, value string) *RequestError {
	if e.Headers == nil {
		e.Headers = make(map[string]string)
	}

	e.Headers[key] = value

	return e
}

// StatusCode returns the HTTP status for err. The outermost typed error in the chain
// wins; untyped errors map to 500.
func StatusCode(err error) int {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch t := e.(type) {
		case *RequestError:
			return t.Status
		case *ValidationError:
			return t.Status
		}
	}

	return http.StatusInternalServerError
}
