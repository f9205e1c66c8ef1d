package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord is returned when an input row cannot be turned into a Sample.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnknownCategory is returned when a category has no entry in the color mapping.
	ErrUnknownCategory = errors.New("unknown category")
)

// RecordError describes a malformed input row.
type RecordError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: column %q value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

// Unwrap lets errors.Is match both ErrMalformedRecord and the underlying cause.
func (e *RecordError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedRecord}
	}
	return []error{ErrMalformedRecord, e.Err}
}

// UnknownCategoryError reports the category name missing from the color mapping.
func UnknownCategoryError(category string) error {
	return fmt.Errorf("%w: no color for %q", ErrUnknownCategory, category)
}
