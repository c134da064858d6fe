// Package errors provides error code definitions for the C0lorNote core.
package errors

import "fmt"

// ErrorCode represents a unique, user-presentable error code.
type ErrorCode string

const (
	// General errors
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrDuplicate  ErrorCode = "DUPLICATE"
	ErrValidation ErrorCode = "VALIDATION_ERROR"

	// Entity errors
	ErrNoteNotFound     ErrorCode = "NOTE_NOT_FOUND"
	ErrTagNotFound      ErrorCode = "TAG_NOT_FOUND"
	ErrCategoryNotFound ErrorCode = "CATEGORY_NOT_FOUND"

	// Persistence errors
	ErrPersistence  ErrorCode = "PERSISTENCE_ERROR"
	ErrCorruptStore ErrorCode = "CORRUPT_STORE"
	ErrMigration    ErrorCode = "MIGRATION_FAILED"

	// Configuration errors
	ErrConfig ErrorCode = "CONFIG_ERROR"
)

// AppError represents an application error with code and message.
// Nothing in this system is fatal: every AppError is recoverable by the
// caller, the worst outcome being one failed save or query.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error carries a specific code, unwrapping as needed.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// IsNotFound reports whether the error is any of the not-found codes.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound) ||
		Is(err, ErrNoteNotFound) ||
		Is(err, ErrTagNotFound) ||
		Is(err, ErrCategoryNotFound)
}
