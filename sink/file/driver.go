// Package file writes each list to <dir>/<name>, one entry per line.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"

	"lister/internal/logging"
	"lister/sink"
)

type Config struct {
	Dir string `yaml:"dir"`
}

type driver struct {
	cfg Config
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("file-sink: expected Config, got %T", raw)
	}
	if c.Dir == "" {
		c.Dir = "db"
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("file-sink: %w", err)
	}
	d.cfg = c
	return nil
}

// Write stages the list in <name>-temp and renames it over <name>. An
// unchanged list (same xxh3 digest) leaves the target untouched.
func (d *driver) Write(ctx context.Context, l sink.List) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.Name == "" || strings.ContainsAny(l.Name, `/\`) {
		return fmt.Errorf("file-sink: invalid list name %q", l.Name)
	}
	data := []byte(encode(l.Entries))
	target := filepath.Join(d.cfg.Dir, l.Name)

	old, err := os.ReadFile(target)
	switch {
	case err == nil:
		if xxh3.Hash(old) == xxh3.Hash(data) && len(old) == len(data) {
			logging.L().Debug("file-sink: list unchanged", "list", l.Name, "path", target)
			return nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("file-sink: %w", err)
	}

	tmp := target + "-temp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("file-sink: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file-sink: %w", err)
	}
	logging.L().Info("file-sink: list written", "list", l.Name, "path", target, "entries", len(l.Entries))
	return nil
}

func (d *driver) Close() error { return nil }

func encode(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	return strings.Join(entries, "\n") + "\n"
}

func init() {
	sink.Register("file", func() sink.Adapter { return &driver{} })
}
