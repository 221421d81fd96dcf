package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// FileDriver reads file:// URLs (or bare paths) from the local filesystem.
type FileDriver struct {
	cfg Config
}

func (d *FileDriver) Configure(cfg Config) error {
	ApplyDefaults(&cfg)
	d.cfg = cfg
	return nil
}

func (d *FileDriver) Fetch(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := req.URL
	if strings.HasPrefix(p, "file://") {
		u, err := url.Parse(p)
		if err != nil {
			return "", fmt.Errorf("fetch: %w", err)
		}
		p = u.Path
	}
	fi, err := os.Stat(p)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	if fi.Size() > d.cfg.MaxBodyBytes {
		return "", fmt.Errorf("fetch: %s exceeds %d bytes", p, d.cfg.MaxBodyBytes)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	return string(b), nil
}

func (d *FileDriver) Close() error { return nil }
