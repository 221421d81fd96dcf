package transform

import (
	"errors"
	"fmt"
)

// ErrInvalidSpec reports a malformed transform definition: no variant, more
// than one variant, or invalid parameters. It is never retryable.
var ErrInvalidSpec = errors.New("transform: invalid spec")

// InvalidTransformerKeyError is returned when a decoded spec carries a key
// that names no known transformer.
type InvalidTransformerKeyError struct {
	Key string
}

func (e *InvalidTransformerKeyError) Error() string {
	return fmt.Sprintf("transform: invalid transformer key %q", e.Key)
}

// FieldOutOfRangeError is returned by cut when the requested field has no
// matching segment in the input.
type FieldOutOfRangeError struct {
	Field    int
	Segments int
}

func (e *FieldOutOfRangeError) Error() string {
	return fmt.Sprintf("transform: cut field %d out of range (%d segments)", e.Field, e.Segments)
}

// InvalidInputError is returned by path when its input is not valid JSON or
// the query cannot be evaluated against it.
type InvalidInputError struct {
	Err error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("transform: invalid input: %v", e.Err)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// InvalidResultTypeError is returned by path when the query result is not an
// array of strings. Index is -1 when the result itself has the wrong type.
type InvalidResultTypeError struct {
	Type  string
	Index int
}

func (e *InvalidResultTypeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("transform: invalid result type %s at index %d (want string)", e.Type, e.Index)
	}
	return fmt.Sprintf("transform: invalid result type %s (want array)", e.Type)
}
