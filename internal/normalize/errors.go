package normalize

import (
	"errors"
	"fmt"
)

const (
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldDescription = "description"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrZeroAmount    = errors.New("zero amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyField    = errors.New("empty field")
)

// FieldParseError reports a single raw value that could not be normalized.
// It unwraps to one of the package sentinel errors.
type FieldParseError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldParseError) Unwrap() error {
	return e.Err
}

func fieldError(field, value string, err error) error {
	return &FieldParseError{Field: field, Value: value, Err: err}
}
