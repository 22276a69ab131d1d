package errors

import (
	"fmt"
)

// Error codes for caller-input contract violations and infrastructure faults.
const (
	CodeMappingInvalid = "MAPPING_INVALID"
	CodeTableInvalid   = "TABLE_INVALID"
	CodeRecordInvalid  = "RECORD_INVALID"
	CodeFileInvalid    = "FILE_INVALID"
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeStoreFailure   = "STORE_FAILURE"
	CodeInternal       = "INTERNAL_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context, preserving the code of an
// underlying AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// CodeOf returns the code of an AppError, or CodeInternal for other errors.
func CodeOf(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// HasCode checks whether an error carries the given code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}

// ConfigInvalid creates a configuration error
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}
