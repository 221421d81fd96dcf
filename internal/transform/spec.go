package transform

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Kind names a transformer variant.
type Kind string

const (
	KindSplit Kind = "split"
	KindCut   Kind = "cut"
	KindPath  Kind = "path"

	// legacy spelling of "path" accepted by the decoders
	aliasJQ = "jq"
)

type SplitSpec struct {
	Delimiter string `yaml:"delimiter" json:"delimiter"`
}

type CutSpec struct {
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	Field     int    `yaml:"field" json:"field"`
}

type PathSpec struct {
	Path string `yaml:"path" json:"path"`
}

// Spec is one pipeline step. Exactly one field must be set.
type Spec struct {
	Split *SplitSpec `yaml:"split,omitempty" json:"split,omitempty"`
	Cut   *CutSpec   `yaml:"cut,omitempty" json:"cut,omitempty"`
	Path  *PathSpec  `yaml:"path,omitempty" json:"path,omitempty"`
}

// Kind returns the populated variant. Zero or several populated variants
// yield ErrInvalidSpec.
func (s Spec) Kind() (Kind, error) {
	var set []Kind
	if s.Split != nil {
		set = append(set, KindSplit)
	}
	if s.Cut != nil {
		set = append(set, KindCut)
	}
	if s.Path != nil {
		set = append(set, KindPath)
	}
	switch len(set) {
	case 1:
		return set[0], nil
	case 0:
		return "", fmt.Errorf("%w: no transformer set", ErrInvalidSpec)
	default:
		return "", fmt.Errorf("%w: several transformers set %v", ErrInvalidSpec, set)
	}
}

func (s Spec) String() string {
	k, err := s.Kind()
	if err != nil {
		return "invalid"
	}
	return string(k)
}

// UnmarshalYAML decodes a mapping such as `{cut: {delimiter: ",", field: 1}}`
// and rejects keys that name no transformer.
func (s *Spec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: want a mapping", ErrInvalidSpec, n.Line)
	}
	var out Spec
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		var err error
		switch key {
		case string(KindSplit):
			out.Split = new(SplitSpec)
			err = val.Decode(out.Split)
		case string(KindCut):
			out.Cut = new(CutSpec)
			err = val.Decode(out.Cut)
		case string(KindPath), aliasJQ:
			if out.Path != nil {
				return fmt.Errorf("%w: line %d: path given twice", ErrInvalidSpec, n.Line)
			}
			out.Path = new(PathSpec)
			err = val.Decode(out.Path)
		default:
			return &InvalidTransformerKeyError{Key: key}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	*s = out
	return nil
}

// UnmarshalJSON is the JSON counterpart of UnmarshalYAML.
func (s *Spec) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out Spec
	for _, key := range keys {
		var err error
		switch key {
		case string(KindSplit):
			out.Split = new(SplitSpec)
			err = json.Unmarshal(raw[key], out.Split)
		case string(KindCut):
			out.Cut = new(CutSpec)
			err = json.Unmarshal(raw[key], out.Cut)
		case string(KindPath), aliasJQ:
			if out.Path != nil {
				return fmt.Errorf("%w: path given twice", ErrInvalidSpec)
			}
			out.Path = new(PathSpec)
			err = json.Unmarshal(raw[key], out.Path)
		default:
			return &InvalidTransformerKeyError{Key: key}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	*s = out
	return nil
}
