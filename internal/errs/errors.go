package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of a TransformoDocs error
type ErrorType string

const (
	// ErrTypeValidation indicates a local precondition was not met; no request was sent
	ErrTypeValidation ErrorType = "validation"

	// ErrTypeRemote indicates a transport, status or decode failure talking to a collaborator
	ErrTypeRemote ErrorType = "remote"

	// ErrTypeClipboard indicates the platform refused clipboard access
	ErrTypeClipboard ErrorType = "clipboard"

	// ErrTypeConfiguration indicates invalid configuration
	ErrTypeConfiguration ErrorType = "configuration"

	// ErrTypeInternal indicates internal failures that are not the user's or the collaborator's fault
	ErrTypeInternal ErrorType = "internal"
)

// Error is the error type shared by flows, collaborators and the presenter
type Error struct {
	// Type categorizes the error
	Type ErrorType `json:"type"`

	// Op names the operation that failed (upload, check_mrc, copy, ...)
	Op string `json:"op,omitempty"`

	// Message is the user-facing description
	Message string `json:"message"`

	// StatusCode for HTTP-related errors
	StatusCode int `json:"status_code,omitempty"`

	// Cause is the underlying error, kept for logs only
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	parts = append(parts, fmt.Sprintf("type=%s", e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by type
func (e *Error) Is(target error) bool {
	if te, ok := target.(*Error); ok {
		return e.Type == te.Type
	}
	return false
}

// UserMessage returns the message suitable for display
func (e *Error) UserMessage() string {
	if e.Message == "" {
		return string(e.Type) + " error"
	}
	return e.Message
}

// NewValidationError creates a validation error for a local precondition
func NewValidationError(op, message string) *Error {
	return &Error{Type: ErrTypeValidation, Op: op, Message: message}
}

// NewRemoteError creates a remote error with a generic user message
func NewRemoteError(op, message string, statusCode int) *Error {
	return &Error{Type: ErrTypeRemote, Op: op, Message: message, StatusCode: statusCode}
}

// NewRemoteErrorWithCause creates a remote error wrapping the transport or decode failure
func NewRemoteErrorWithCause(op, message string, cause error) *Error {
	return &Error{Type: ErrTypeRemote, Op: op, Message: message, Cause: cause}
}

// NewClipboardError creates a clipboard error
func NewClipboardError(message string, cause error) *Error {
	return &Error{Type: ErrTypeClipboard, Op: "copy", Message: message, Cause: cause}
}

// NewConfigurationError creates a configuration error for a named field
func NewConfigurationError(field, message string) *Error {
	return &Error{Type: ErrTypeConfiguration, Op: field, Message: message}
}

// NewInternalError creates an internal error
func NewInternalError(op, message string, cause error) *Error {
	return &Error{Type: ErrTypeInternal, Op: op, Message: message, Cause: cause}
}

// IsType reports whether err is, or wraps, an *Error of the given type
func IsType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// UserMessage returns the display message for any error
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.UserMessage()
	}
	return err.Error()
}
