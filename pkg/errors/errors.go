// Package errors provides the unified error type and factory functions for
// the CaseTrack-Analytics service. Every layer (domain, analytics,
// infrastructure, interfaces) uses AppError as the single carrier for
// structured error information, enabling consistent HTTP responses, logging
// and monitoring.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames
// above the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError — the canonical service error type
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout the service.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeUpstreamUnavailable, "deadline fetch failed")
//	return errors.Wrap(err, errors.ErrCodeModelTraining, "logistic fit diverged")
type AppError struct {
	// Code is the typed error code identifying the failure category.
	Code ErrorCode

	// Message is the primary human-readable description, suitable for
	// inclusion in API responses.
	Message string

	// Detail carries supplementary context (parameters, row counts, entity
	// ids) that aids debugging without leaking internals to end users.
	Detail string

	// Cause is the underlying error, enabling errors.Is / errors.As traversal.
	Cause error

	// Stack contains the formatted call stack captured at creation. It is
	// intentionally not part of Error() output; structured logging middleware
	// reads the field directly.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>", detail omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Factories
// ─────────────────────────────────────────────────────────────────────────────

// New constructs an AppError with the given code and message and captures the
// call stack at the point of creation.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf constructs an AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps err with the given code and message.
// A nil err yields a plain New-style error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an AppError carrying code.
func IsCode(err error, code ErrorCode) bool {
	var app *AppError
	for e := err; e != nil; {
		if errors.As(e, &app) && app.Code == code {
			return true
		}
		e = errors.Unwrap(e)
	}
	return false
}

// GetCode returns the ErrorCode of the outermost AppError in err's chain, or
// ErrCodeInternal when err carries no AppError.
func GetCode(err error) ErrorCode {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return ErrCodeInternal
}

// IsUpstreamUnavailable reports whether err is an upstream-fetch failure.
func IsUpstreamUnavailable(err error) bool { return IsCode(err, ErrCodeUpstreamUnavailable) }

// IsInsufficientData reports whether err is a below-minimum batch failure.
func IsInsufficientData(err error) bool { return IsCode(err, ErrCodeInsufficientData) }

// IsBadRequest reports whether err is a malformed-request failure.
func IsBadRequest(err error) bool { return IsCode(err, ErrCodeBadRequest) }

// ─────────────────────────────────────────────────────────────────────────────
// Convenience constructors
// ─────────────────────────────────────────────────────────────────────────────

// InvalidParam constructs a bad-request AppError.
func InvalidParam(format string, args ...interface{}) *AppError {
	return Newf(ErrCodeBadRequest, format, args...)
}

// Internal constructs an internal-failure AppError.
func Internal(format string, args ...interface{}) *AppError {
	return Newf(ErrCodeInternal, format, args...)
}

// UpstreamUnavailable constructs an upstream-fetch AppError.
func UpstreamUnavailable(format string, args ...interface{}) *AppError {
	return Newf(ErrCodeUpstreamUnavailable, format, args...)
}

// InsufficientData constructs a below-minimum-batch AppError.
func InsufficientData(format string, args ...interface{}) *AppError {
	return Newf(ErrCodeInsufficientData, format, args...)
}

// DegenerateTarget constructs a zero-variance-target AppError.
func DegenerateTarget(format string, args ...interface{}) *AppError {
	return Newf(ErrCodeDegenerateTarget, format, args...)
}
