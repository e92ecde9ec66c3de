package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeEmptyInput ErrorType = "empty_input"
	ErrorTypeUpload     ErrorType = "upload"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents an analysis error with type information
type Error struct {
	Type    ErrorType
	Message string
	// Source is the uploaded file the error relates to, if any
	Source string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.Source != "" {
		msg = fmt.Sprintf("%s error in %s: %s", e.Type, e.Source, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given type
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates an Error of the given type around an underlying error
func Wrap(errorType ErrorType, message string, err error) *Error {
	return &Error{Type: errorType, Message: message, Err: err}
}

// NewParseError reports malformed input or input missing expected fields
func NewParseError(source, message string, err error) *Error {
	return &Error{Type: ErrorTypeParsing, Message: message, Source: source, Err: err}
}

// NewEmptyInputError reports input that parsed cleanly but holds no accounts
func NewEmptyInputError(source string) *Error {
	return &Error{Type: ErrorTypeEmptyInput, Message: "no accounts found", Source: source}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsType checks if err is an *Error of the given type
func IsType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	return TypeOf(err) == errorType
}

// IsUserFacing checks if an error type is caused by user input and can be
// shown to the user as is
func IsUserFacing(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeParsing, ErrorTypeEmptyInput, ErrorTypeUpload, ErrorTypeNotFound,
		ErrorTypeRateLimit, ErrorTypeValidation:
		return true
	default:
		return false
	}
}

// HTTPStatus maps an error type to the status code returned by the API
func HTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeParsing, ErrorTypeUpload, ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeEmptyInput:
		return http.StatusOK
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
