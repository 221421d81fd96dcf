// lister/sink/stdout/driver.go
package stdout

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"lister/sink"
)

/* ────────── public YAML config ────────── */
type Config struct {
	PrintCounter bool `yaml:"print_counter"` // prepend entry position
	MaxEntries   int  `yaml:"max_entries"`   // 0 = print all

	Out io.Writer `yaml:"-"` // defaults to os.Stdout
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config
	mu  sync.Mutex // serializes concurrent lists
}

/* ────────── sink.Adapter ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	d.cfg = c
	return nil
}

func (d *driver) Write(_ context.Context, l sink.List) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := bufio.NewWriter(d.cfg.Out)
	for i, e := range l.Entries {
		if d.cfg.MaxEntries > 0 && i >= d.cfg.MaxEntries {
			fmt.Fprintf(w, "%s\t… %d more\n", l.Name, len(l.Entries)-i)
			break
		}
		if d.cfg.PrintCounter {
			fmt.Fprintf(w, "%s\t%06d\t%s\n", l.Name, i+1, e)
		} else {
			fmt.Fprintf(w, "%s\t%s\n", l.Name, e)
		}
	}
	return w.Flush()
}

func (d *driver) Close() error { return nil }

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}
