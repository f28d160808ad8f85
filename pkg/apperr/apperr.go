package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable error code returned to API clients.
type Code string

const (
	CodeValidation       Code = "VALIDATION"
	CodeNotFound         Code = "NOT_FOUND"
	CodeAlreadyProcessed Code = "ALREADY_PROCESSED"
	CodeNotConnected     Code = "NOT_CONNECTED"
	CodeInsufficientData Code = "INSUFFICIENT_DATA"
	CodeMissingAPIKey    Code = "MISSING_API_KEY"
	CodeRateLimit        Code = "RATE_LIMIT"
	CodeAPIError         Code = "API_ERROR"
	CodeTimeout          Code = "TIMEOUT"
	CodeSendFailed       Code = "SEND_FAILED"
	CodeInternal         Code = "INTERNAL"
)

// Error carries a code for clients plus a human-readable message.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error that preserves the underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the code from err, falling back to INTERNAL.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// HTTPStatus maps an error code to the status the API layer should respond with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyProcessed:
		return http.StatusConflict
	case CodeNotConnected, CodeMissingAPIKey, CodeInsufficientData:
		return http.StatusPreconditionFailed
	case CodeRateLimit:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeAPIError, CodeSendFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
