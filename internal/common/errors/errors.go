package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeAPIRequestFailed ErrorCode = "API_REQUEST_FAILED"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeConflict         ErrorCode = "CONFLICT"
	ErrCodeRequestTimeout   ErrorCode = "REQUEST_TIMEOUT"
	ErrCodeNetworkError     ErrorCode = "NETWORK_ERROR"
	ErrCodeDecodeFailed     ErrorCode = "DECODE_FAILED"

	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidFilterFormat ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodePasswordMismatch    ErrorCode = "PASSWORD_MISMATCH"
	ErrCodeEmptyMessage        ErrorCode = "EMPTY_MESSAGE"

	ErrCodeNotAuthenticated ErrorCode = "NOT_AUTHENTICATED"
	ErrCodeDemoReadOnly     ErrorCode = "DEMO_READ_ONLY"

	ErrCodeCacheFailed ErrorCode = "CACHE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError is the single error shape surfaced by the client.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	cause      error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches on Code so sentinel comparisons work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata returns e after attaching a key.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// Sentinels for errors.Is.
var (
	ErrUnauthorized     = &StandardError{Code: ErrCodeUnauthorized}
	ErrForbidden        = &StandardError{Code: ErrCodeForbidden}
	ErrNotFound         = &StandardError{Code: ErrCodeNotFound}
	ErrNotAuthenticated = &StandardError{Code: ErrCodeNotAuthenticated}
	ErrDemoReadOnly     = &StandardError{Code: ErrCodeDemoReadOnly}
	ErrValidation       = &StandardError{Code: ErrCodeValidationFailed}
	ErrInvalidFilter    = &StandardError{Code: ErrCodeInvalidFilterFormat}
	ErrEmptyMessage     = &StandardError{Code: ErrCodeEmptyMessage}
)

// NewAPIError maps a non-2xx backend response. message is the backend's
// "message" field and may be empty.
func NewAPIError(status int, method, path, message string) *StandardError {
	code := codeForStatus(status)
	msg := message
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = "Request failed"
	}
	e := newError(code, msg, fmt.Sprintf("%s %s -> %d", method, path, status))
	e.StatusCode = status
	e.Retryable = status >= 500 || status == http.StatusTooManyRequests
	e.Metadata = map[string]interface{}{"method": method, "path": path}
	return e
}

func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrCodeValidationFailed
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrCodeRequestTimeout
	default:
		return ErrCodeAPIRequestFailed
	}
}

func NewNetworkError(method, path string, err error) *StandardError {
	e := newError(ErrCodeNetworkError, "Network error, please check your connection", fmt.Sprintf("%s %s: %v", method, path, err))
	e.Retryable = true
	e.cause = err
	return e
}

func NewRequestTimeoutError(method, path string, err error) *StandardError {
	e := newError(ErrCodeRequestTimeout, "Request timed out", fmt.Sprintf("%s %s", method, path))
	e.Retryable = true
	e.cause = err
	return e
}

func NewDecodeFailedError(path string, err error) *StandardError {
	e := newError(ErrCodeDecodeFailed, "Unexpected response from server", fmt.Sprintf("path: %s, error: %v", path, err))
	e.cause = err
	return e
}

func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Please fill in all fields", details)
}

// NewFieldValidationError carries a field-specific message.
func NewFieldValidationError(message, details string) *StandardError {
	return newError(ErrCodeValidationFailed, message, details)
}

func NewInvalidFilterFormatError(details string) *StandardError {
	return newError(ErrCodeInvalidFilterFormat, "Invalid filter format", details)
}

func NewPasswordMismatchError() *StandardError {
	return newError(ErrCodePasswordMismatch, "Passwords do not match", "")
}

func NewEmptyMessageError() *StandardError {
	return newError(ErrCodeEmptyMessage, "Message cannot be empty", "")
}

func NewNotAuthenticatedError(action string) *StandardError {
	return newError(ErrCodeNotAuthenticated, "Please sign in to continue", fmt.Sprintf("action: %s", action))
}

func NewDemoReadOnlyError(action string) *StandardError {
	return newError(ErrCodeDemoReadOnly, "Demo accounts cannot perform this action", fmt.Sprintf("action: %s", action))
}

func NewForbiddenError(action string) *StandardError {
	return newError(ErrCodeForbidden, "You do not have access to this page", fmt.Sprintf("action: %s", action))
}

func NewCacheFailedError(op string, err error) *StandardError {
	e := newError(ErrCodeCacheFailed, "Cache operation failed", fmt.Sprintf("op: %s, error: %v", op, err))
	e.Retryable = true
	e.cause = err
	return e
}

// AsStandard extracts a *StandardError from the chain.
func AsStandard(err error) (*StandardError, bool) {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CodeOf returns the error code or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	if se, ok := AsStandard(err); ok {
		return se.Code
	}
	return ErrCodeInternal
}

// UserMessage returns the server or client supplied message, or fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if se, ok := AsStandard(err); ok && se.Message != "" {
		if se.Code == ErrCodeAPIRequestFailed && se.StatusCode >= 500 && se.Message == http.StatusText(se.StatusCode) {
			return fallback
		}
		if se.Code == ErrCodeInternal {
			return fallback
		}
		return se.Message
	}
	return fallback
}

func GetErrorCategory(code ErrorCode) string {
	switch {
	case code == ErrCodeUnauthorized || code == ErrCodeForbidden ||
		code == ErrCodeNotAuthenticated || code == ErrCodeDemoReadOnly:
		return "AUTH"
	case strings.Contains(string(code), "VALIDATION") || code == ErrCodeInvalidFilterFormat ||
		code == ErrCodePasswordMismatch || code == ErrCodeEmptyMessage:
		return "VALIDATION"
	case code == ErrCodeNetworkError || code == ErrCodeRequestTimeout:
		return "NETWORK"
	case strings.HasPrefix(string(code), "CACHE"):
		return "CACHE"
	case code == ErrCodeNotFound || code == ErrCodeConflict ||
		code == ErrCodeAPIRequestFailed || code == ErrCodeDecodeFailed:
		return "API"
	default:
		return "UNKNOWN"
	}
}
