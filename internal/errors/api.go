package errors

import (
	stdErrors "errors"
	"fmt"
)

// APIError represents a non-success response from a remote API. Code and
// Message carry the service's own error payload when it sent one.
type APIError struct {
	Service    string
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("%s API error (HTTP %d) %s: %s", e.Service, e.StatusCode, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s API error (HTTP %d): %s", e.Service, e.StatusCode, e.Message)
	case e.Body != "":
		return fmt.Sprintf("%s API error (HTTP %d): %s", e.Service, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s API error (HTTP %d)", e.Service, e.StatusCode)
}

// IsAPIError reports whether err is an APIError (even when wrapped).
func IsAPIError(err error) bool {
	var apiErr *APIError
	return stdErrors.As(err, &apiErr)
}

// AsAPIError extracts the APIError from err, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if stdErrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
