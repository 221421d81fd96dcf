package pipeline

import (
	"errors"
	"reflect"
	"testing"

	"lister/internal/transform"
)

func split(d string) transform.Spec { return transform.Spec{Split: &transform.SplitSpec{Delimiter: d}} }

func cut(d string, f int) transform.Spec {
	return transform.Spec{Cut: &transform.CutSpec{Delimiter: d, Field: f}}
}

func path(p string) transform.Spec { return transform.Spec{Path: &transform.PathSpec{Path: p}} }

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name  string
		specs []transform.Spec
		in    string
		want  []string
	}{
		{"identity", nil, "x", []string{"x"}},
		{"identity empty input", nil, "", []string{}},
		{"split drops empty", []transform.Spec{split(",")}, "a,b,,c", []string{"a", "b", "c"}},
		{"split then cut", []transform.Spec{split("\n"), cut(",", 1)}, "a,b\nc,d", []string{"b", "d"}},
		{"tranco csv", []transform.Spec{split("\n"), cut(",", 0)}, "europa.eu,1\nexample.com,2", []string{"europa.eu", "example.com"}},
		{"trailing newline", []transform.Spec{split("\n"), cut(",", 1)}, "1,a.com\n2,b.com\n", []string{"a.com", "b.com"}},
		{"empty cut segment dropped", []transform.Spec{split("\n"), cut(",", 1)}, "1,\n2,b.com", []string{"b.com"}},
		{"path then split", []transform.Spec{path(".hosts"), split(".")}, `{"hosts":["a.b","c"]}`, []string{"a", "b", "c"}},
		{"depth-first order", []transform.Spec{split(";"), split(",")}, "a,b;c,d;e", []string{"a", "b", "c", "d", "e"}},
		{"empty input with steps", []transform.Spec{split(",")}, "", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.specs, tc.in)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEvaluate_CutOutOfRange(t *testing.T) {
	got, err := Evaluate([]transform.Spec{cut(",", 5)}, "a,b")
	var oor *transform.FieldOutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("want FieldOutOfRangeError, got %v", err)
	}
	if got != nil {
		t.Fatalf("want no partial result, got %q", got)
	}
}

func TestEvaluate_FailFastOnLaterElement(t *testing.T) {
	// first row is fine, second has no second field
	got, err := Evaluate([]transform.Spec{split("\n"), cut(",", 1)}, "a,b\nc")
	var oor *transform.FieldOutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatalf("want FieldOutOfRangeError, got %v", err)
	}
	if got != nil {
		t.Fatalf("want no partial result, got %q", got)
	}
}

func TestEvaluate_InvalidSpec(t *testing.T) {
	_, err := Evaluate([]transform.Spec{{}}, "x")
	if !errors.Is(err, transform.ErrInvalidSpec) {
		t.Fatalf("want ErrInvalidSpec, got %v", err)
	}
}

func TestEvaluate_InvalidSpecAfterValidStep(t *testing.T) {
	_, err := Evaluate([]transform.Spec{split(","), {}}, "a,b")
	if !errors.Is(err, transform.ErrInvalidSpec) {
		t.Fatalf("want ErrInvalidSpec, got %v", err)
	}
}

func TestEvaluate_PathErrors(t *testing.T) {
	_, err := Evaluate([]transform.Spec{path(".data")}, "not json")
	var inv *transform.InvalidInputError
	if !errors.As(err, &inv) {
		t.Fatalf("want InvalidInputError, got %v", err)
	}

	_, err = Evaluate([]transform.Spec{path(".data")}, `{"data":{"a":"b"}}`)
	var rt *transform.InvalidResultTypeError
	if !errors.As(err, &rt) || rt.Type != "object" {
		t.Fatalf("want InvalidResultTypeError(object), got %v", err)
	}
}
