package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes failures for the presentation layer.
type ErrorCode string

const (
	// Input errors block the query; no upstream call is made.
	CodeStartAfterEnd  ErrorCode = "input_start_after_end"
	CodeMissingCity    ErrorCode = "input_missing_city"
	CodeInvalidRequest ErrorCode = "input_invalid_request"

	// Upstream errors are reported as a generic load failure.
	CodeTransport ErrorCode = "upstream_transport"
	CodeContract  ErrorCode = "upstream_contract"
	CodeNotFound  ErrorCode = "upstream_not_found"

	CodeDisabled ErrorCode = "feature_disabled"
)

// AppError carries a code, a user-facing message and the underlying cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// NewAppError builds an AppError.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError with the same code, so sentinel values such as
// ErrStartAfterEnd work with errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// ErrStartAfterEnd rejects a range whose start is later than its end.
var ErrStartAfterEnd = &AppError{Code: CodeStartAfterEnd, Message: "Start date cannot be after End date."}

// ErrMissingCity rejects an empty city lookup.
var ErrMissingCity = &AppError{Code: CodeMissingCity, Message: "Please enter a city or country name."}

// TransportError wraps a network failure or non-success HTTP status.
func TransportError(reason string, err error) *AppError {
	return NewAppError(CodeTransport, reason, err)
}

// ContractError wraps a response that is missing expected fields. It is
// reported to users exactly like a transport failure.
func ContractError(reason string, err error) *AppError {
	return NewAppError(CodeContract, reason, err)
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsInputError reports whether err was caused by user input.
func IsInputError(err error) bool {
	return strings.HasPrefix(string(CodeOf(err)), "input_")
}

// UserMessage renders err the way it is shown inline to the user.
func UserMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		if err == nil {
			return ""
		}
		return "Failed to load data: " + err.Error()
	}
	switch appErr.Code {
	case CodeTransport, CodeContract:
		msg := appErr.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return "Failed to load data: " + msg
	default:
		return appErr.Message
	}
}
