package errors

import (
	"errors"
	"fmt"
)

// Generic codes, used by packages with no more specific taxonomy of their own.
const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL"
)

// AppError is the standard error shape used across the module: a stable
// code for log/metric correlation, a human-readable message, and an
// optional wrapped cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with the given code, message, and optional cause.
func New(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Wrap creates an internal AppError wrapping err with additional context.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: CodeInternal, Message: message, Cause: err}
}

// Is reports whether err's chain contains an AppError with the given code.
func Is(err error, code string) bool {
	var appErr *AppError
	for errors.As(err, &appErr) {
		if appErr.Code == code {
			return true
		}
		if appErr.Cause == nil {
			return false
		}
		err = appErr.Cause
	}
	return false
}

// As is a thin re-export of the standard library's errors.As, kept here so
// callers only need to import this package for chain inspection.
func As(err error, target any) bool {
	return errors.As(err, target)
}
