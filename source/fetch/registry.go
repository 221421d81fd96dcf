package fetch

import "fmt"

// Factory builds an Adapter (HTTPDriver, FileDriver, …).
type Factory func() Adapter

var registry = map[string]Factory{
	"http": func() Adapter { return &HTTPDriver{} },
	"file": func() Adapter { return &FileDriver{} },
}

// Register adds or replaces a driver.
func Register(name string, f Factory) {
	registry[name] = f
}

// NewAdapter returns a driver by name ("http", "file", …).
func NewAdapter(name string) (Adapter, error) {
	if f, ok := registry[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("fetch: unsupported driver %q", name)
}
