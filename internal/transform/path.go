package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/itchyny/gojq"
)

// Path evaluates a jq expression against its JSON input. The expression must
// emit exactly one value, an array of strings. Streams such as ".items[].name"
// are rejected whatever their length; wrap them as "[.items[].name]".
type Path struct {
	expr string
	code *gojq.Code
}

func NewPath(s PathSpec) (*Path, error) {
	q, err := gojq.Parse(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: path %q: %v", ErrInvalidSpec, s.Path, err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("%w: path %q: %v", ErrInvalidSpec, s.Path, err)
	}
	return &Path{expr: s.Path, code: code}, nil
}

func (t *Path) Transform(in string) ([]string, error) {
	var doc any
	if err := json.Unmarshal([]byte(in), &doc); err != nil {
		return nil, &InvalidInputError{Err: err}
	}
	res, err := t.eval(doc)
	if err != nil {
		return nil, err
	}
	arr, ok := res.([]any)
	if !ok {
		return nil, &InvalidResultTypeError{Type: jsonType(res), Index: -1}
	}
	out := make([]string, 0, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, &InvalidResultTypeError{Type: jsonType(v), Index: i}
		}
		out = append(out, s)
	}
	return out, nil
}

func (t *Path) eval(doc any) (any, error) {
	var vals []any
	iter := t.code.Run(doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, &InvalidInputError{Err: fmt.Errorf("path %q: %w", t.expr, err)}
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 1:
		return vals[0], nil
	case 0:
		return nil, &InvalidResultTypeError{Type: "empty", Index: -1}
	default:
		return nil, &InvalidResultTypeError{Type: fmt.Sprintf("stream of %d values", len(vals)), Index: -1}
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int, float64, *big.Int, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
