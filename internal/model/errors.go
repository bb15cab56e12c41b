package model

import (
	"errors"
	"fmt"
)

// ErrUnknownField matches any UnknownFieldError via errors.Is.
var ErrUnknownField = errors.New("unknown field")

// UnknownFieldError is returned when a field name is outside the schema.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("model: record has no such field %q", e.Field)
}

// Is lets errors.Is(err, ErrUnknownField) succeed.
func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// ConversionError is returned when a raw text value cannot be coerced to the
// field's declared type.
type ConversionError struct {
	Field string
	Value string
	Kind  Kind
	Row   map[string]string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("model: convert %q: %q as %s: %v (row %v)", e.Field, e.Value, e.Kind, e.Err, e.Row)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
