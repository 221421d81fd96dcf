package transform

import "fmt"

// Transformer maps one working-set entry to zero or more entries.
type Transformer interface {
	Transform(in string) ([]string, error)
}

// New builds the transformer selected by s.
func New(s Spec) (Transformer, error) {
	kind, err := s.Kind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindSplit:
		return NewSplit(*s.Split), nil
	case KindCut:
		t, err := NewCut(*s.Cut)
		if err != nil {
			return nil, err
		}
		return t, nil
	case KindPath:
		t, err := NewPath(*s.Path)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unhandled kind %q", ErrInvalidSpec, kind)
	}
}
