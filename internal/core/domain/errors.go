package domain

import (
	"errors"
	"fmt"
)

// APIError is the error object embedded in API responses.
//
// ErrCode 0 means no error. Comparison with errors.Is matches on ErrCode only.
type APIError struct {
	ErrCode uint   `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
	Cause   error  `json:"-"` // internal, logged but never sent
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.ErrCode, e.ErrMsg, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.ErrCode, e.ErrMsg)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.ErrCode == t.ErrCode
}

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code uint, message string) *APIError {
	return &APIError{
		ErrCode: code,
		ErrMsg:  message,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *APIError) WithCause(cause error) *APIError {
	return &APIError{
		ErrCode: e.ErrCode,
		ErrMsg:  e.ErrMsg,
		Cause:   cause,
	}
}

// IsAPIError checks if an error is an APIError with the given code.
// If code is 0, it only checks if the error is an APIError.
func IsAPIError(err error, code uint) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		if code == 0 {
			return true
		}
		return ae.ErrCode == code
	}
	return false
}

// GetErrorCode extracts the errcode from an error, or 0 if it is not an APIError.
func GetErrorCode(err error) uint {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.ErrCode
	}
	return 0
}

// AsAPIError converts any error to an APIError.
// Errors that are not APIErrors become ErrUnexpectedError with err as cause.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae
	}
	return ErrUnexpectedError.WithCause(err)
}

// Errcodes.
const (
	CodeTokenInvalid      uint = 100
	CodeRequestNotAllowed uint = 101
	CodeBadRequest        uint = 102
	CodeSystemError       uint = 400
	CodeUnexpectedError   uint = 999
)

var (
	// ErrTokenInvalid means the X-QReader-Token header is missing or outside
	// the accepted window. Clients must log in again.
	ErrTokenInvalid = NewAPIError(CodeTokenInvalid, "Client token is invalid. Please make sure you have the permission to use QReader.")

	// ErrRequestNotAllowed is returned for API paths with no handler.
	ErrRequestNotAllowed = NewAPIError(CodeRequestNotAllowed, "The request is not allowed.")

	// ErrBadRequest indicates malformed query or body data.
	ErrBadRequest = NewAPIError(CodeBadRequest, "Request query or post data not correct.")

	// ErrSystemError covers io, filesystem and similar failures.
	ErrSystemError = NewAPIError(CodeSystemError, "System error.")

	// ErrUnexpectedError is the fallback for anything else.
	ErrUnexpectedError = NewAPIError(CodeUnexpectedError, "Unexpected error.")
)
