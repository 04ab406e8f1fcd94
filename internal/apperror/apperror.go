package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category. Handlers map codes to HTTP
// statuses; clients branch on them to decide whether to retry or back off.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeConfig       Code = "CONFIG_ERROR"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeConflict     Code = "CONFLICT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeSystem       Code = "SYSTEM_ERROR"
)

// Error carries the taxonomy code alongside a human-readable message.
// The wrapped cause is kept for logs and non-production responses only.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error without an underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a taxonomy code to an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the taxonomy code from an error chain.
// Unclassified errors are reported as SYSTEM_ERROR.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeSystem
}

// MessageOf extracts the human-readable message from an error chain.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "An unexpected error occurred. Please try again later."
}

// HTTPStatus maps a taxonomy code to an HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeRateLimit:
		return http.StatusTooManyRequests
	case CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConfig, CodeSystem:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
