package sink

import (
	"context"
	"fmt"
)

// List is the final result of one list run.
type List struct {
	Name    string
	RunID   string
	Entries []string
}

// Adapter is the common behaviour every sink exposes.
type Adapter interface {
	Configure(any) error                     // driver-specific YAML ⇒ struct
	Write(ctx context.Context, l List) error // replace the stored list
	Close() error                            // idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}
