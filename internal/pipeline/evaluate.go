package pipeline

import (
	"fmt"

	"lister/internal/transform"
)

// Evaluate threads input through specs in order. Each step is applied to
// every entry of the working set, outputs are concatenated in source order,
// and empty strings are dropped. The first error aborts the evaluation.
//
// With no steps the result is input itself, or nothing when input is empty.
func Evaluate(specs []transform.Spec, input string) ([]string, error) {
	result := []string{input}
	if len(specs) == 0 {
		return nonEmpty(result), nil
	}
	for i, s := range specs {
		t, err := transform.New(s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		next := make([]string, 0, len(result))
		for _, entry := range result {
			out, err := t.Transform(entry)
			if err != nil {
				return nil, fmt.Errorf("step %d (%s): %w", i, s, err)
			}
			next = append(next, out...)
		}
		result = nonEmpty(next)
	}
	return result, nil
}

// nonEmpty filters in place.
func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
