// Package errhandling provides the typed error values shared across the
// runtime. Every error in this taxonomy is fatal to the operation that
// produced it: nothing here is retried or silently defaulted, and all
// errors propagate unmodified to the immediate caller.
package errhandling

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies the category of a runtime error.
type ErrorCode string

// Error codes for classification.
const (
	// CodeDuplicateIdentifier is returned when a name is registered twice
	// in the same registry.
	CodeDuplicateIdentifier ErrorCode = "DUPLICATE_IDENTIFIER"

	// CodeUnknownIdentifier is returned when a config references a name
	// that was never registered.
	CodeUnknownIdentifier ErrorCode = "UNKNOWN_IDENTIFIER"

	// CodeMissingKey is returned when a required configuration key is
	// absent.
	CodeMissingKey ErrorCode = "MISSING_KEY"

	// CodeKeyNotFound is returned when a key-scoped transform is applied
	// to a sample that lacks the key.
	CodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"

	// CodeArityMismatch is returned when a structural remap's key list
	// does not match the sample's arity.
	CodeArityMismatch ErrorCode = "ARITY_MISMATCH"

	// CodeIndexOutOfRange is returned for item access outside
	// [0, dataset length).
	CodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"

	// CodeShapeMismatch is returned when a transform receives a sample
	// shape it does not accept.
	CodeShapeMismatch ErrorCode = "SHAPE_MISMATCH"

	// CodeInvalidConfig is returned for configuration values that are
	// present but unusable (wrong type, out of range).
	CodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Error is a classified runtime error. It carries a code for programmatic
// handling, a human-readable message, and optionally the underlying error.
type Error struct {
	// Code is the error classification code.
	Code ErrorCode

	// Message is a human-readable error message.
	Message string

	// OriginalErr is the underlying error, if any.
	OriginalErr error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.OriginalErr
}

// GetCode returns the classification code of err, or an empty code if err
// is nil or untyped.
func GetCode(err error) ErrorCode {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Code
	}
	return ""
}

// IsCode reports whether err carries the given classification code.
func IsCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// NewDuplicateIdentifierError creates an error for a name registered twice.
// kind names the registry ("dataset", "transform") for context.
func NewDuplicateIdentifierError(kind, identifier string) *Error {
	return &Error{
		Code:    CodeDuplicateIdentifier,
		Message: fmt.Sprintf("%s %q is already registered", kind, identifier),
	}
}

// NewUnknownIdentifierError creates an error for an unregistered name.
// known lists the registered names to make the message actionable.
func NewUnknownIdentifierError(kind, identifier string, known []string) *Error {
	msg := fmt.Sprintf("unknown %s %q", kind, identifier)
	if len(known) > 0 {
		msg += fmt.Sprintf(" (registered: %s)", strings.Join(known, ", "))
	}
	return &Error{Code: CodeUnknownIdentifier, Message: msg}
}

// NewMissingKeyError creates an error for a required config key that is
// absent. context names the config block being parsed.
func NewMissingKeyError(context, key string) *Error {
	return &Error{
		Code:    CodeMissingKey,
		Message: fmt.Sprintf("required key %q is missing in %s config", key, context),
	}
}

// NewKeyNotFoundError creates an error for a sample key absent at
// transform time.
func NewKeyNotFoundError(key string) *Error {
	return &Error{
		Code:    CodeKeyNotFound,
		Message: fmt.Sprintf("sample has no key %q", key),
	}
}

// NewArityMismatchError creates an error for a structural remap whose key
// list length does not match the sample arity.
func NewArityMismatchError(want, got int) *Error {
	return &Error{
		Code:    CodeArityMismatch,
		Message: fmt.Sprintf("expected %d keys for sample arity %d, got %d keys", want, want, got),
	}
}

// NewIndexOutOfRangeError creates an error for item access outside the
// valid range [0, length).
func NewIndexOutOfRangeError(index, length int) *Error {
	return &Error{
		Code:    CodeIndexOutOfRange,
		Message: fmt.Sprintf("index %d out of range [0, %d)", index, length),
	}
}

// NewShapeMismatchError creates an error for a transform applied to a
// sample shape it does not accept.
func NewShapeMismatchError(transform, want, got string) *Error {
	return &Error{
		Code:    CodeShapeMismatch,
		Message: fmt.Sprintf("%s expects a %s-shaped sample, got %s", transform, want, got),
	}
}

// NewInvalidConfigError creates an error for a config value that is
// present but unusable.
func NewInvalidConfigError(message string, originalErr error) *Error {
	return &Error{
		Code:        CodeInvalidConfig,
		Message:     message,
		OriginalErr: originalErr,
	}
}
