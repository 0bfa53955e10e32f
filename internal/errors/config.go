package errors

import (
	stdErrors "errors"
	"strings"
)

// ConfigError reports required configuration that is missing or invalid.
// It is raised before any network call is made and is never retried.
type ConfigError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required configuration: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid configuration: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return "invalid configuration"
	}
	return strings.Join(parts, "; ")
}

// NewConfigError creates a ConfigError for the given environment variable names.
func NewConfigError(missing ...string) *ConfigError {
	return &ConfigError{Missing: missing}
}

// IsConfigError reports whether err is a ConfigError (even when wrapped).
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return stdErrors.As(err, &cfgErr)
}
