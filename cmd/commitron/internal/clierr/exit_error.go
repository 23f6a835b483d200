// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clierr carries explicit process exit codes on errors so that
// main stays dumb and commands just wrap and return.
package clierr

import (
	"errors"
	"fmt"
)

// Exit codes by failure class.
const (
	CodeGeneric    = 1
	CodeUsage      = 2 // bad flags or configuration
	CodeGit        = 3 // git prerequisite or operation failure
	CodeGeneration = 4 // generator failed after the retry budget
)

// ExitError is an error with an explicit process exit code. It wraps a
// cause so errors.Is/As keep working.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

// ExitCode returns the process exit code.
func (e *ExitError) ExitCode() int { return e.code }

// Unwrap exposes the cause to errors.Is/As.
func (e *ExitError) Unwrap() error { return e.cause }

// New creates an ExitError with a message.
func New(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// Wrap creates an ExitError around a cause.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

// Newf is the formatted variant of New.
func Newf(code int, format string, args ...any) error {
	return &ExitError{code: normalize(code), msg: fmt.Sprintf(format, args...)}
}

// ExitCodeOf extracts the exit code from any error, defaulting to 1.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return CodeGeneric
}

func normalize(code int) int {
	if code <= 0 {
		return CodeGeneric
	}
	return code
}
