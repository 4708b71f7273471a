package release

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("invalid release configuration")
	// ErrStructure is matched by every *StructureError.
	ErrStructure = errors.New("invalid appcast structure")
)

// ConfigurationError reports a missing or malformed release input.
type ConfigurationError struct {
	// Key is the name of the offending input, e.g. "FILE_SIZE".
	Key string
	// Value is the rejected value; empty when the input is missing.
	Value string
	// Reason describes what is wrong with the input.
	Reason string
	// Err is the underlying parse error, if any.
	Err error
}

// NewMissingError returns a ConfigurationError for a required input that was not provided.
func NewMissingError(key string) *ConfigurationError {
	return &ConfigurationError{
		Key:    key,
		Reason: "missing required environment variable",
	}
}

// NewInvalidError returns a ConfigurationError for an input with a rejected value.
func NewInvalidError(key, value, reason string, err error) *ConfigurationError {
	return &ConfigurationError{
		Key:    key,
		Value:  value,
		Reason: reason,
		Err:    err,
	}
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Value == "" && e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Reason, e.Key)
	}

	return fmt.Sprintf("%s %s, got: %q", e.Key, e.Reason, e.Value)
}

// Unwrap exposes the underlying parse error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConfiguration) succeed.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// StructureError reports an appcast document lacking an expected element.
type StructureError struct {
	// Element is the name of the missing element, e.g. "channel".
	Element string
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	return fmt.Sprintf("no <%s> element found in appcast", e.Element)
}

// Is makes errors.Is(err, ErrStructure) succeed.
func (e *StructureError) Is(target error) bool {
	return target == ErrStructure
}
