package sdk

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories returned by the client. Every error from an API method wraps
// exactly one of these, so callers can branch with errors.Is.
var (
	// ErrInvalidConfig indicates the client configuration is invalid or incomplete.
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrAuthentication indicates the refresh-token exchange failed or returned no access token.
	ErrAuthentication = errors.New("authentication failed")

	// ErrLookup indicates a required resource (e.g., a connected account) was not found.
	ErrLookup = errors.New("resource not found")

	// ErrProtocol indicates the provider answered with a body of an unexpected shape.
	ErrProtocol = errors.New("unexpected response from provider")

	// ErrNetwork indicates the request never produced an HTTP response.
	ErrNetwork = errors.New("network error")

	// ErrProvider indicates a non-2xx response from the provider.
	ErrProvider = errors.New("provider error")
)

// ErrorClass is a coarse classification of a provider HTTP status.
type ErrorClass string

const (
	ErrorClassNone          ErrorClass = "NONE"
	ErrorClassInvalidInput  ErrorClass = "INVALID_INPUT"
	ErrorClassUnauthorized  ErrorClass = "UNAUTHORIZED"
	ErrorClassNotFound      ErrorClass = "NOT_FOUND"
	ErrorClassConflict      ErrorClass = "CONFLICT"
	ErrorClassThrottling    ErrorClass = "THROTTLING"
	ErrorClassInternalError ErrorClass = "INTERNAL_ERROR"
	ErrorClassUnknown       ErrorClass = "UNKNOWN"
)

// ClassifyHTTPStatus maps an HTTP status code to an ErrorClass.
func ClassifyHTTPStatus(statusCode int) ErrorClass {
	switch statusCode {
	case 400, 422:
		return ErrorClassInvalidInput
	case 401, 403:
		return ErrorClassUnauthorized
	case 404:
		return ErrorClassNotFound
	case 409:
		return ErrorClassConflict
	case 429:
		return ErrorClassThrottling
	case 500, 502, 503, 504:
		return ErrorClassInternalError
	default:
		if statusCode >= 200 && statusCode < 300 {
			return ErrorClassNone
		}
		return ErrorClassUnknown
	}
}

// APIError carries the details of a non-2xx provider response.
// It unwraps to ErrProvider.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Class      ErrorClass
	Code       string
	Messages   []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d (%s)", e.Method, e.Path, e.StatusCode, e.Class)
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if len(e.Messages) > 0 {
		msg += ": " + strings.Join(e.Messages, "; ")
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return ErrProvider
}
