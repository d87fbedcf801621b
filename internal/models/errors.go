package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrValidation    = errors.New("validation failed")
	ErrConfiguration = errors.New("configuration mismatch")
	ErrNotFound      = errors.New("record not found")
)

// ValidationError rejects a single raw record: a required field is missing or
// a value cannot be coerced to the field's declared type.
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v of type %T)", e.Field, e.Reason, e.Value, e.Value)
}

// Is lets callers match on ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConfigurationError reports a weighted metric that is absent from a whole
// season's data for a position. It is a warning: the remaining weights are
// renormalized.
type ConfigurationError struct {
	Position  DetailedPosition
	Component string
	Metric    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("metric %q missing for %s %s component", e.Metric, e.Position, e.Component)
}

// Is lets callers match on ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
