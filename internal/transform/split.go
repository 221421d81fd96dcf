package transform

import "strings"

// Split divides its input at every delimiter. Empty segments are kept; the
// pipeline drops them.
type Split struct {
	delimiter string
}

func NewSplit(s SplitSpec) Split { return Split{delimiter: s.Delimiter} }

func (t Split) Transform(in string) ([]string, error) {
	return strings.Split(in, t.delimiter), nil
}
