// pkg/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
)

// ValidationError is a local, recoverable input problem. Field is empty when the
// problem is not tied to a single form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthenticationError means a flow that needs a token was started without one.
// Redirect names the route the caller should send the user to.
type AuthenticationError struct {
	Message  string
	Redirect string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{Message: message, Redirect: "/signin"}
}

// ConflictError is a backend 409. Err keeps the HTTPError it came from.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

func NewConflictError(message string, err error) *ConflictError {
	if message == "" {
		message = MsgConflict
	}
	return &ConflictError{Message: message, Err: err}
}

const MsgConflict = "The request conflicts with the current state of the resource"

// NotFoundError is a lookup miss. Controllers treat it as a terminal view state,
// not as a failure.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NetworkError wraps a request that never produced an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

// HTTPError is a non-2xx answer from the backend. Detail carries the backend's
// own message when it sent one.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Detail
}

func NewHTTPError(status int, detail string) *HTTPError {
	return &HTTPError{Status: status, Detail: detail}
}

type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{Message: message}
}

// IsNetwork reports whether err is, or wraps, a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return stderrors.As(err, &ne)
}

// AsHTTP returns the HTTPError inside err, if any.
func AsHTTP(err error) (*HTTPError, bool) {
	var he *HTTPError
	if stderrors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return stderrors.As(err, &nf)
}

// UserMessage picks the text shown to a user: the backend detail when there is one,
// otherwise fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if he, ok := AsHTTP(err); ok && he.Detail != "" {
		return he.Detail
	}
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve.Error()
	}
	var ae *AuthenticationError
	if stderrors.As(err, &ae) {
		return ae.Message
	}
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce.Message
	}
	return fallback
}
