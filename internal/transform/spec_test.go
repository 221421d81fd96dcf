package transform

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSpec_DecodeYAML(t *testing.T) {
	raw := []byte(`
- split: { delimiter: "\n" }
- cut: { delimiter: ",", field: 1 }
- path: { path: ".data" }
- jq: { path: ".items" }
`)
	var specs []Spec
	if err := yaml.Unmarshal(raw, &specs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(specs) != 4 {
		t.Fatalf("want 4 specs, got %d", len(specs))
	}
	if specs[0].Split == nil || specs[0].Split.Delimiter != "\n" {
		t.Fatalf("split not decoded: %+v", specs[0])
	}
	if specs[1].Cut == nil || specs[1].Cut.Field != 1 {
		t.Fatalf("cut not decoded: %+v", specs[1])
	}
	if specs[3].Path == nil || specs[3].Path.Path != ".items" {
		t.Fatalf("jq alias not decoded: %+v", specs[3])
	}
	for i, s := range specs {
		if _, err := s.Kind(); err != nil {
			t.Fatalf("spec %d: %v", i, err)
		}
	}
}

func TestSpec_UnknownKey(t *testing.T) {
	var s Spec
	err := yaml.Unmarshal([]byte(`grep: { pattern: "x" }`), &s)
	var key *InvalidTransformerKeyError
	if !errors.As(err, &key) {
		t.Fatalf("yaml: want InvalidTransformerKeyError, got %v", err)
	}
	if key.Key != "grep" {
		t.Fatalf("want key grep, got %q", key.Key)
	}

	err = json.Unmarshal([]byte(`{"split":{"delimiter":","},"grep":{}}`), &s)
	if !errors.As(err, &key) || key.Key != "grep" {
		t.Fatalf("json: want InvalidTransformerKeyError for grep, got %v", err)
	}
}

func TestSpec_EmptyAndMultiple(t *testing.T) {
	var s Spec
	if err := json.Unmarshal([]byte(`{}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := s.Kind(); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("empty: want ErrInvalidSpec, got %v", err)
	}

	if err := yaml.Unmarshal([]byte("split: {delimiter: ','}\ncut: {delimiter: ',', field: 0}\n"), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := s.Kind(); !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("multiple: want ErrInvalidSpec, got %v", err)
	}

	err := yaml.Unmarshal([]byte("path: {path: '.a'}\njq: {path: '.b'}\n"), &s)
	if !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("path+jq: want ErrInvalidSpec, got %v", err)
	}
}

func TestSpec_RoundTripJSON(t *testing.T) {
	in := Spec{Cut: &CutSpec{Delimiter: ";", Field: 2}}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"cut":{"delimiter":";","field":2}}` {
		t.Fatalf("unexpected encoding %s", b)
	}
}
