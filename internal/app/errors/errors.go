package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies pipeline failures so callers can decide how to surface them.
type Kind string

const (
	KindUnknown            Kind = ""
	KindNotFound           Kind = "not_found"
	KindBackendUnavailable Kind = "backend_unavailable"
	KindInvalidModel       Kind = "invalid_model"
	KindBackendError       Kind = "backend_error"
	KindPersistence        Kind = "persistence_error"
	KindInvalidInput       Kind = "invalid_input"
)

// Common error types
var (
	// Resolver errors
	ErrNotFound     = NewKind(KindNotFound, "audio not found")
	ErrInvalidName  = NewKind(KindInvalidInput, "invalid filename")
	ErrNoBlobStore  = NewKind(KindBackendUnavailable, "remote blob store is not configured")
	ErrEmptyBatch   = NewKind(KindInvalidInput, "batch contains no files")
	ErrBatchAborted = New("batch aborted")

	// Backend errors
	ErrInvalidModel       = NewKind(KindInvalidModel, "invalid model")
	ErrNoTunnel           = NewKind(KindBackendUnavailable, "no https tunnel is advertised")
	ErrBackendUnavailable = NewKind(KindBackendUnavailable, "backend unavailable")
	ErrBackendFailed      = NewKind(KindBackendError, "backend reported failure")

	// Configuration errors
	ErrMissingAPIKey = New("API key is required")
	ErrMissingConfig = New("configuration is required")
	ErrInvalidConfig = New("invalid configuration")
)

// Error represents a standardized error
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// NewKind creates a new error of the given kind
func NewKind(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// WithKind wraps err and tags the result with kind.
func WithKind(kind Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:    kind,
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error's own kind, without looking at the cause.
func (e *Error) Kind() Kind {
	return e.kind
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message && e.kind == t.kind
}

// kinded is implemented by errors that carry a Kind, such as *Error.
type kinded interface {
	Kind() Kind
}

// KindOf returns the first kind found along the wrap chain.
func KindOf(err error) Kind {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() != KindUnknown {
			return k.Kind()
		}
		err = stderrors.Unwrap(err)
	}
	return KindUnknown
}

// IsKind reports whether err carries kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Is is a shorthand for the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a shorthand for the standard library errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Helper functions for common patterns

// NotFound returns an error for items that were not found
func NotFound(itemType string, identifier string) error {
	return &Error{kind: KindNotFound, message: fmt.Sprintf("%s not found: %s", itemType, identifier)}
}

// InvalidModel returns an error for a backend name nobody registered
func InvalidModel(name string) error {
	return &Error{kind: KindInvalidModel, message: fmt.Sprintf("invalid model: %q", name)}
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return &Error{kind: KindInvalidInput, message: fmt.Sprintf("%s is required", field)}
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return &Error{kind: KindInvalidInput, message: fmt.Sprintf("%s is invalid: %s", field, reason)}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	if IsKind(err, KindInvalidInput) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid")
}
