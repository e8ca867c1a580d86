package filter

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the kind shared by every rejected filter parameter.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a malformed filter parameter. It must be surfaced
// to the user before the pipeline runs; nothing is coerced.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) hold.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErr(field, value, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

// AsConfigurationError extracts a ConfigurationError from err, or nil.
func AsConfigurationError(err error) *ConfigurationError {
	var ce *ConfigurationError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}
