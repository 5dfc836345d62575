// Package errors defines the coded errors bumper reports to its callers.
//
// Every failure a user can act on carries a [Code]. Library callers test
// for a code with [Is]; the command line prints [UserMessage] and exits
// with [ExitStatus].
//
//	err := errors.New(errors.ErrCodeFileNotFound, "composer.json not found in %s", dir)
//	errors.ExitStatus(err) // 2
//
//	err = errors.Wrap(errors.ErrCodeInvalidManifest, cause, "parse %s", path)
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"    // bad flag or argument
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"  // malformed package name
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST" // composer.json cannot be used
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"   // config file or environment
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeNetwork         Code = "NETWORK_ERROR"
	ErrCodeInternal        Code = "INTERNAL_ERROR"
)

// Process exit statuses.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitNotFound    = 2
	ExitInterrupted = 130 // shell convention for SIGINT
)

// Error is a failure with a code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: sprintf(format, args)}
}

// Wrap returns an error with code and a formatted message caused by cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: sprintf(format, args), Cause: cause}
}

// Is reports whether any coded error in err's chain carries code.
func Is(err error, code Code) bool {
	for e := range coded(err) {
		if e.Code == code {
			return true
		}
	}
	return false
}

// CodeOf returns the code of the outermost coded error in err's chain,
// or "" when there is none.
func CodeOf(err error) Code {
	for e := range coded(err) {
		return e.Code
	}
	return ""
}

// UserMessage renders err for the terminal: its full text with the code
// prefixes removed.
func UserMessage(err error) string {
	msg := err.Error()
	for e := range coded(err) {
		msg = strings.Replace(msg, string(e.Code)+": ", "", 1)
	}
	return msg
}

// ExitStatus maps err to the process exit status.
func ExitStatus(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case Is(err, ErrCodeFileNotFound):
		return ExitNotFound
	default:
		return ExitFailure
	}
}

func sprintf(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// coded yields the *Error values in err's chain, outermost first.
func coded(err error) func(yield func(*Error) bool) {
	return func(yield func(*Error) bool) {
		for err != nil {
			var e *Error
			if !errors.As(err, &e) {
				return
			}
			if !yield(e) {
				return
			}
			err = e.Cause
		}
	}
}
