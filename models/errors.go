package models

import "errors"

var (
	// ErrInvalidSpec indicates an InstanceSpec is missing a required field.
	// It is returned before any request is sent.
	ErrInvalidSpec = errors.New("invalid instance spec")
)

// ErrorResponse is the error body returned by the VMC API on non-2xx responses.
type ErrorResponse struct {
	// ErrorCode is the provider error code (e.g., "invalid.input")
	ErrorCode string `json:"error_code,omitempty"`

	// ErrorMessages holds one or more human-readable messages
	ErrorMessages []string `json:"error_messages,omitempty"`

	// Status is the HTTP status echoed by the provider
	Status int `json:"status,omitempty"`

	// Path is the request path the error refers to
	Path string `json:"path,omitempty"`
}
