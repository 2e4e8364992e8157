package errors

import (
	"net/http"

	"flagpole/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// Predefined error types
var (
	// Flag-related errors
	ErrFlagNotFound = NewBaseError(
		http.StatusNotFound,
		"FLAG_NOT_FOUND",
		"Flag not found",
		"",
	)

	ErrFlagViewMalformed = NewBaseError(
		http.StatusUnprocessableEntity,
		"FLAG_VIEW_MALFORMED",
		"Flag view must only contain T and F",
		"",
	)

	ErrFlagSizeInvalid = NewBaseError(
		http.StatusBadRequest,
		"FLAG_SIZE_INVALID",
		"Flag size must be between 0 and the configured maximum",
		"",
	)

	ErrFlagEmpty = NewBaseError(
		http.StatusBadRequest,
		"FLAG_EMPTY",
		"A flag with no bits cannot be stored",
		"",
	)

	ErrFlagIndexOutOfRange = NewBaseError(
		http.StatusBadRequest,
		"FLAG_INDEX_OUT_OF_RANGE",
		"Flag index is out of range",
		"",
	)

	// File-related errors
	ErrFileKeyInvalid = NewBaseError(
		http.StatusBadRequest,
		"FILE_KEY_INVALID",
		"File key must name a file",
		"",
	)

	ErrFileNotFound = NewBaseError(
		http.StatusNotFound,
		"FILE_NOT_FOUND",
		"File not found",
		"",
	)

	ErrFileAlreadyExists = NewBaseError(
		http.StatusConflict,
		"FILE_ALREADY_EXISTS",
		"File already exists",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error to errors.Is / errors.As.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
