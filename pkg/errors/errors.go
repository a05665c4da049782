// Package errors provides the unified error type and factory functions for the
// axiomgfx-dili service.  Every layer (domain, application, infrastructure,
// interfaces) uses AppError as the single carrier for structured error
// information so that HTTP responses, logs and metrics stay consistent.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Stack capture
// ─────────────────────────────────────────────────────────────────────────────

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and the factory).
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
// AppError: the canonical service error type
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout the service.
// It satisfies the standard error interface and supports errors.Is / errors.As
// traversal through Cause.
//
// Usage:
//
//	return errors.New(errors.ErrCodeCompoundNotFound, "compound 42 not found")
//	return errors.Wrap(err, errors.ErrCodeDataSourceParseError, "decode pubchem cids")
//	return errors.Upstream("pubchem", 404, nil).WithDetail("cid=4091")
type AppError struct {
	// Code is the typed error code that identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description, safe for API bodies.
	Message string

	// Detail carries supplementary context (identifiers, query values).
	Detail string

	// Cause is the underlying error, if any.
	Cause error

	// Provider names the upstream data source for SRC_* errors.
	Provider string

	// UpstreamStatus is the HTTP status reported by the upstream source.
	// Zero when the failure happened before a response was received.
	UpstreamStatus int

	// Stack is captured by the factories and is never part of Error().
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>"; the detail segment is omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code.String(), e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// HTTPStatus is the status code a transport layer should answer with.
// Upstream statuses in the 4xx/5xx range pass through unchanged.
func (e *AppError) HTTPStatus() int {
	if e.UpstreamStatus >= 400 && e.UpstreamStatus <= 599 {
		return e.UpstreamStatus
	}
	return HTTPStatusForCode(e.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Fluent builder methods
// ─────────────────────────────────────────────────────────────────────────────

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer (returns nil).
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
// Primary factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.
// If err is nil, Wrap returns nil so it can be used inline.
//
// When err is already an *AppError and code is CodeUnknown the original code
// and upstream attribution are preserved.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	out := &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
	var ae *AppError
	if errors.As(err, &ae) {
		if code == CodeUnknown {
			out.Code = ae.Code
		}
		out.Provider = ae.Provider
		out.UpstreamStatus = ae.UpstreamStatus
	}
	return out
}

// Upstream reports a failed call to an external data source.  status is the
// HTTP status the source answered with, or 0 when no response arrived (DNS,
// connection refused, cancelled context).
func Upstream(provider string, status int, cause error) *AppError {
	code := ErrCodeDataSourceBadStatus
	switch {
	case status == 0:
		code = ErrCodeDataSourceUnavailable
	case status == http.StatusTooManyRequests:
		code = ErrCodeDataSourceRateLimited
	}
	msg := fmt.Sprintf("%s request failed", provider)
	if status != 0 {
		msg = fmt.Sprintf("%s returned status %d", provider, status)
	}
	return &AppError{
		Code:           code,
		Message:        msg,
		Cause:          cause,
		Provider:       provider,
		UpstreamStatus: status,
		Stack:          captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether any error in err's chain is a not-found AppError.
func IsNotFound(err error) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) {
			switch ae.Code {
			case CodeNotFound, CodeMoleculeNotFound, CodeCompoundNotFound, ErrCodeStructureUnavailable:
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsUpstream reports whether err originated from an external data source.
func IsUpstream(err error) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ModuleForCode(ae.Code) == "SRC"
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's chain.
// If no *AppError is present, CodeUnknown is returned.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// HTTPStatus resolves the transport status for any error.  Non-AppErrors map
// to 500.
func HTTPStatus(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// ─────────────────────────────────────────────────────────────────────────────
// Convenience factory functions
// ─────────────────────────────────────────────────────────────────────────────

// NotFound constructs a CodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Stack:   captureStack(1),
	}
}

// InvalidParam constructs a CodeInvalidParam AppError.
func InvalidParam(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidParam,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Internal constructs a CodeInternal AppError.  Log the underlying cause
// before or after calling Internal; the message is shown to callers.
func Internal(message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Stack:   captureStack(1),
	}
}

// RateLimit constructs a CodeRateLimit AppError.
func RateLimit(message string) *AppError {
	return &AppError{
		Code:    CodeRateLimit,
		Message: message,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Standard library pass-throughs
// ─────────────────────────────────────────────────────────────────────────────

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Unwrap returns the result of calling Unwrap on err.
func Unwrap(err error) error { return errors.Unwrap(err) }

//Personal.AI order the ending
