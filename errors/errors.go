// Package errors defines the error kinds produced while generating a project.
//
// Every stage of the pipeline (option resolution, rendering, pruning,
// finalizing) reports failures as *Error values carrying a stable Code and
// the offending key, path or rule in Details, so the CLI can print precise
// diagnostics and tests can match on the kind rather than on message text.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode identifies an error kind.
type ErrorCode string

// Fatal kinds abort generation. FinalizeWarning is the only recoverable kind.
const (
	ErrUnknown ErrorCode = "UNKNOWN"

	// Option resolution
	ErrInvalidChoice    ErrorCode = "INVALID_CHOICE"
	ErrInvalidValue     ErrorCode = "INVALID_VALUE"
	ErrUnknownOption    ErrorCode = "UNKNOWN_OPTION"
	ErrCyclicDerivation ErrorCode = "CYCLIC_DERIVATION"

	// Template and manifest
	ErrUndefinedVariable    ErrorCode = "UNDEFINED_VARIABLE"
	ErrInvalidPath          ErrorCode = "INVALID_PATH"
	ErrManifestInvalid      ErrorCode = "MANIFEST_INVALID"
	ErrTemplateNotFound     ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrIncompatibleTemplate ErrorCode = "INCOMPATIBLE_TEMPLATE"
	ErrTemplateSyntax       ErrorCode = "TEMPLATE_SYNTAX"

	// Pruning
	ErrOverlappingPruneRule ErrorCode = "OVERLAPPING_PRUNE_RULE"

	// Output
	ErrDestinationConflict ErrorCode = "DESTINATION_CONFLICT"
	ErrMaterializeFailed   ErrorCode = "MATERIALIZE_FAILED"
	ErrFinalizeWarning     ErrorCode = "FINALIZE_WARNING"
)

// Detail keys used across packages.
const (
	DetailKey     = "key"
	DetailPath    = "path"
	DetailRule    = "rule"
	DetailValue   = "value"
	DetailChoices = "choices"
	DetailStep    = "step"
	DetailCycle   = "cycle"
	DetailOthers  = "others"
)

// Error is a structured error with a code and details.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// Fatal reports whether the error aborts generation.
func (e *Error) Fatal() bool {
	return e.Code != ErrFinalizeWarning
}

// New creates an Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}
}

// Newf creates an Error with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message. Returns nil if err is nil.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Detail returns a detail rendered as a string, or "" when absent.
func (e *Error) Detail(key string) string {
	v, ok := e.Details[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	default:
		return fmt.Sprint(t)
	}
}

// DetailKeys returns the detail keys in sorted order.
func (e *Error) DetailKeys() []string {
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetErrorCode returns the code of err, or ErrUnknown if it is not an *Error.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// As is errors.As restricted to *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
