package transform

import (
	"fmt"
	"strings"
)

// Cut keeps a single delimited field of its input, like cut(1) with a
// zero-based field index.
type Cut struct {
	delimiter string
	field     int
}

func NewCut(s CutSpec) (Cut, error) {
	if s.Field < 0 {
		return Cut{}, fmt.Errorf("%w: cut field %d is negative", ErrInvalidSpec, s.Field)
	}
	return Cut{delimiter: s.Delimiter, field: s.Field}, nil
}

func (t Cut) Transform(in string) ([]string, error) {
	parts := strings.Split(in, t.delimiter)
	if t.field >= len(parts) {
		return nil, &FieldOutOfRangeError{Field: t.field, Segments: len(parts)}
	}
	return []string{parts[t.field]}, nil
}
