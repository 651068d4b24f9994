package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	ErrCodeTimeout ErrorCode = iota
	ErrCodeConnection
	// ErrCodeAuth covers 401 and 403.
	ErrCodeAuth
	ErrCodeNotFound
	ErrCodeRateLimit
	// ErrCodeValidation covers other 4xx statuses and bad requests built locally.
	ErrCodeValidation
	ErrCodeServer
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is a classified HTTP client error.
type Error struct {
	// StatusCode is 0 for connection-level failures.
	StatusCode int
	Code       ErrorCode
	// Message is the server's error message when the body carried one.
	Message   string
	Retryable bool
	Body      []byte
	Err       error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError wraps a deadline or client timeout.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewConnectionError wraps a transport failure.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewValidationError reports a request that could not be built.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// ClassifyStatusCode converts a status into an *Error, or nil for 2xx.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	e := &Error{StatusCode: statusCode, Message: messageFromBody(statusCode, body), Body: body}
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeValidation
	case statusCode >= 500:
		e.Code, e.Retryable = ErrCodeServer, true
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// messageFromBody pulls a human-readable message out of common error
// envelopes: {"error":{"message":...}}, {"error":"..."} and {"detail":"..."}.
func messageFromBody(statusCode int, body []byte) string {
	var envelope struct {
		Error  json.RawMessage `json:"error"`
		Detail any             `json:"detail"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		var nested struct {
			Message string `json:"message"`
		}
		var flat string
		switch {
		case json.Unmarshal(envelope.Error, &nested) == nil && nested.Message != "":
			return nested.Message
		case json.Unmarshal(envelope.Error, &flat) == nil && flat != "":
			return flat
		}
		if detail, ok := envelope.Detail.(string); ok && detail != "" {
			return detail
		}
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsTimeout reports a timeout error.
func IsTimeout(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeTimeout
}

// IsAuth reports a 401 or 403.
func IsAuth(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeAuth
}

// IsNotFound reports a 404.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == ErrCodeNotFound
}

// IsRetryable reports whether err is marked retryable.
func IsRetryable(err error) bool {
	e, ok := AsError(err)
	return ok && e.Retryable
}
