package errors

import (
	stdErrors "errors"
	"fmt"
)

// NetworkError wraps a transport-level failure of an outbound HTTP call:
// connection refused, DNS failure, TLS errors, client timeouts.
type NetworkError struct {
	Service string
	Op      string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Service, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a NetworkError for the given service and operation.
func NewNetworkError(service, op string, err error) *NetworkError {
	return &NetworkError{Service: service, Op: op, Err: err}
}

// IsNetworkError reports whether err is a NetworkError (even when wrapped).
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return stdErrors.As(err, &netErr)
}
