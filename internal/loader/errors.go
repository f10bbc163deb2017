package loader

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is matched by EmptyInputError via errors.Is.
var ErrEmptyInput = errors.New("no usable price rows")

// ParseError reports a row whose date or close field can not be used.
// Row is 1-based over data rows; 0 means the header.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("parse header: column %q: %v", e.Column, e.Err)
	}
	return fmt.Sprintf("parse row %d: column %q value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyInputError is returned when validation leaves zero rows.
type EmptyInputError struct {
	Source string
}

func (e *EmptyInputError) Error() string {
	if e.Source == "" {
		return ErrEmptyInput.Error()
	}
	return fmt.Sprintf("%s: %v", e.Source, ErrEmptyInput)
}

func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }
