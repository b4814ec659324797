package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Startup errors, fatal before the first request is served
	ErrorTypeDataLoad ErrorType = "DATA_LOAD"
	ErrorTypeSchema   ErrorType = "SCHEMA"

	// Caller errors
	ErrorTypeValidation  ErrorType = "VALIDATION"
	ErrorTypeRange       ErrorType = "RANGE"
	ErrorTypeInvalidMode ErrorType = "INVALID_MODE"
	ErrorTypeNotFound    ErrorType = "NOT_FOUND"
	ErrorTypeRateLimit   ErrorType = "RATE_LIMIT"

	// Data errors raised by statistical transforms
	ErrorTypeDomain                 ErrorType = "DOMAIN"
	ErrorTypeDegenerateDistribution ErrorType = "DEGENERATE_DISTRIBUTION"

	// Application errors
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

func newError(t ErrorType, status int, message string) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

// Constructor functions for common error types

// NewDataLoadError reports a dataset file that is missing, unreadable or lacks the
// expected columns.
func NewDataLoadError(path string, message string) *AppError {
	return newError(ErrorTypeDataLoad, http.StatusInternalServerError,
		fmt.Sprintf("failed to load %q: %s", path, message))
}

// NewSchemaError reports a dataset whose structure breaks the table invariants.
func NewSchemaError(message string) *AppError {
	return newError(ErrorTypeSchema, http.StatusInternalServerError, message)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, message)
}

// NewRangeError reports a year outside the loaded range.
func NewRangeError(year, min, max int) *AppError {
	return newError(ErrorTypeRange, http.StatusBadRequest,
		fmt.Sprintf("year %d outside range [%d, %d]", year, min, max)).
		WithDetails(map[string]interface{}{"year": year, "year_min": min, "year_max": max})
}

// NewInvalidModeError reports an unknown colour mode.
func NewInvalidModeError(mode int) *AppError {
	return newError(ErrorTypeInvalidMode, http.StatusBadRequest,
		fmt.Sprintf("colour mode %d is not one of 0, 1", mode))
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(limit int, window string) *AppError {
	return newError(ErrorTypeRateLimit, http.StatusTooManyRequests,
		fmt.Sprintf("rate limit exceeded: %d requests per %s", limit, window))
}

// NewDomainError reports a value outside the domain of a transform (log of a
// non-positive number).
func NewDomainError(message string) *AppError {
	return newError(ErrorTypeDomain, http.StatusUnprocessableEntity, message)
}

// NewDegenerateDistributionError reports a series that cannot be min-max scaled.
func NewDegenerateDistributionError(message string) *AppError {
	return newError(ErrorTypeDegenerateDistribution, http.StatusUnprocessableEntity, message)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message)
}

// Helper functions

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsRange checks if an error is a year range error
func IsRange(err error) bool {
	return IsType(err, ErrorTypeRange)
}

// IsInvalidMode checks if an error is an invalid colour mode error
func IsInvalidMode(err error) bool {
	return IsType(err, ErrorTypeInvalidMode)
}

// IsDataLoad checks if an error is a data load error
func IsDataLoad(err error) bool {
	return IsType(err, ErrorTypeDataLoad)
}

// IsSchema checks if an error is a schema error
func IsSchema(err error) bool {
	return IsType(err, ErrorTypeSchema)
}

// IsDomain checks if an error is a transform domain error
func IsDomain(err error) bool {
	return IsType(err, ErrorTypeDomain)
}

// IsDegenerateDistribution checks if an error is a degenerate distribution error
func IsDegenerateDistribution(err error) bool {
	return IsType(err, ErrorTypeDegenerateDistribution)
}

// IsDataError reports whether err means the data itself broke a transform
// precondition, as opposed to the caller passing a bad argument.
func IsDataError(err error) bool {
	return IsDomain(err) || IsDegenerateDistribution(err)
}
