package serppro

import (
	"errors"
	"fmt"
)

// Common errors returned by the SerpPro client.
var (
	// ErrMissingBaseURL indicates the client was constructed without a base URL.
	ErrMissingBaseURL = errors.New("serppro base URL is required")
	// ErrMissingAPIKey indicates the client was constructed without an API key.
	ErrMissingAPIKey = errors.New("serppro API key is required")
)

// Message used when a 422 body carries no usable error_message.
const defaultUnprocessableMessage = "Unprocessable Content - invalid query"

// ValidationError reports caller input that violates the request contract.
// It is returned before any network activity takes place.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrorModel is the structured error body the API returns on 422 responses.
type ErrorModel struct {
	ID           string   `json:"id,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
	Instance     string   `json:"instance,omitempty"`
	InvalidData  []string `json:"invalid_data,omitempty"`
}

// APIError represents a failed API call. A zero StatusCode means the remote
// was never reached (DNS, connection or TLS failure); any other status is the
// HTTP code the remote answered with. Model is set when the error body could
// be decoded into the structured form.
type APIError struct {
	StatusCode int
	Message    string
	Model      *ErrorModel
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("serppro API error: status %d: %s", e.StatusCode, e.Message)
}

// IsTransport reports whether the remote was never reached.
func (e *APIError) IsTransport() bool {
	return e.StatusCode == 0
}

// IsUnprocessable reports whether the remote rejected the request body.
func (e *APIError) IsUnprocessable() bool {
	return e.StatusCode == 422
}
