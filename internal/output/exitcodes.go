// Package output provides structured output and error handling for the usher CLI.
package output

import "errors"

// Exit codes:
// 0 = Success
// 1 = User error (bad args, unknown prompt id, malformed trigger file)
// 2 = System error (I/O error, unwritable state directory)
// 3 = External tool failure (dart/flutter exited non-zero)
const (
	ExitSuccess     = 0
	ExitUserError   = 1
	ExitSystemError = 2
	ExitToolError   = 3
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an error for user-caused issues (exit code 1).
// Use for: bad arguments, unknown prompt ids, malformed trigger files.
func NewUserError(message string) *ExitError {
	return &ExitError{
		Code:    ExitUserError,
		Message: message,
	}
}

// NewSystemError creates an error for system failures (exit code 2).
// Use for: I/O errors, unwritable state or config directories.
func NewSystemError(message string) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
	}
}

// NewSystemErrorWithCause creates a system error wrapping an underlying cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitSystemError,
		Message: message,
		Cause:   cause,
	}
}

// NewToolError creates an error for external tool failures (exit code 3).
// Use for: dart or flutter invocations that exit non-zero.
func NewToolError(message string) *ExitError {
	return &ExitError{
		Code:    ExitToolError,
		Message: message,
	}
}

// NewToolErrorWithCause creates a tool error wrapping an underlying cause.
func NewToolErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitToolError,
		Message: message,
		Cause:   cause,
	}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil, ExitUserError for non-ExitError errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Default to user error for untyped errors
	return ExitUserError
}
