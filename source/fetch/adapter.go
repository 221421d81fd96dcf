package fetch

import "context"

// Request names the resource to retrieve.
type Request struct {
	URL     string
	Headers map[string]string
}

// Adapter retrieves a whole resource body as text.
type Adapter interface {
	Configure(Config) error
	Fetch(context.Context, Request) (string, error)
	Close() error
}
