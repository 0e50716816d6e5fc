package errors

import (
	"errors"
	"fmt"
)

// Common application errors
var (
	// Input errors
	ErrSchemaMismatch  = errors.New("synthetic dataset schema does not match original")
	ErrEmptyDataset    = errors.New("dataset contains no records")
	ErrColumnNotFound  = errors.New("column not found")
	ErrInvalidBinCount = errors.New("invalid bin count: must be positive")

	// Evaluation errors
	ErrUnsupportedInteraction = errors.New("only univariate and bivariate interactions are supported")
	ErrInsufficientData       = errors.New("insufficient records for requested sample size")
	ErrValidatorNotFound      = errors.New("validator not found")
	ErrEncoderNotFitted       = errors.New("feature encoder has not been fitted")
	ErrSchemeNotFitted        = errors.New("binning scheme has not been fitted")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrConfigurationLoad    = errors.New("failed to load configuration")

	// Internal errors
	ErrInternal       = errors.New("internal error")
	ErrNotImplemented = errors.New("not implemented")
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeUsage         ErrorType = "usage"
	ErrorTypeData          ErrorType = "data"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeInternal      ErrorType = "internal"
)

// AppError represents an application-specific error with additional context
type AppError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with application context
func WrapError(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// NewValidationError creates a validation error: a precondition on the
// input data was violated and the evaluation cannot proceed.
func NewValidationError(code, message string) *AppError {
	return NewAppError(ErrorTypeValidation, code, message)
}

// NewUsageError creates a usage error: the caller asked for something the
// evaluator does not support, such as an interaction of order three.
func NewUsageError(code, message string) *AppError {
	return NewAppError(ErrorTypeUsage, code, message)
}

// NewDataError creates a data error
func NewDataError(code, message string) *AppError {
	return NewAppError(ErrorTypeData, code, message)
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(code, message string) *AppError {
	return NewAppError(ErrorTypeConfiguration, code, message)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, "INTERNAL_ERROR", message)
}

// Error codes for different error scenarios
const (
	// Validation error codes
	CodeSchemaMismatch   = "SCHEMA_MISMATCH"
	CodeEmptyDataset     = "EMPTY_DATASET"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeColumnNotFound   = "COLUMN_NOT_FOUND"
	CodeNotFitted        = "NOT_FITTED"

	// Usage error codes
	CodeUnsupportedInteraction = "UNSUPPORTED_INTERACTION"
	CodeInvalidBinCount        = "INVALID_BIN_COUNT"
	CodeInvalidSampleSize      = "INVALID_SAMPLE_SIZE"
	CodeInvalidNeighborCount   = "INVALID_NEIGHBOR_COUNT"
	CodeValidatorNotFound      = "VALIDATOR_NOT_FOUND"

	// Data error codes
	CodeReadFailed      = "READ_FAILED"
	CodeMissingHeader   = "MISSING_HEADER"
	CodeDuplicateColumn = "DUPLICATE_COLUMN"
	CodeRaggedRecord    = "RAGGED_RECORD"

	// Configuration error codes
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeConfigurationLoad    = "CONFIGURATION_LOAD"

	// Internal error codes
	CodeInternalError  = "INTERNAL_ERROR"
	CodeNotImplemented = "NOT_IMPLEMENTED"
)
