// Package postgres stores lists in a Postgres table. A write deletes the
// list's rows and COPYs the new entries in one transaction.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lister/sink"
)

type Config struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"` // "schema.table" or "table"; defaults to public.list_entries
}

var columns = []string{"list", "position", "entry", "run_id", "updated_at"}

type driver struct {
	cfg   Config
	table pgx.Identifier
	pool  *pgxpool.Pool
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("postgres-sink: expected Config, got %T", raw)
	}
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("postgres-sink: dsn must not be empty")
	}
	if c.Table == "" {
		c.Table = "public.list_entries"
	}
	ident, err := parseIdentifier(c.Table)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, c.DSN)
	if err != nil {
		return fmt.Errorf("postgres-sink: connect: %w", err)
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	list       text        NOT NULL,
	position   integer     NOT NULL,
	entry      text        NOT NULL,
	run_id     text        NOT NULL,
	updated_at timestamptz NOT NULL,
	PRIMARY KEY (list, position)
)`, ident.Sanitize())
	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()
		return fmt.Errorf("postgres-sink: create table: %w", err)
	}
	d.cfg, d.table, d.pool = c, ident, pool
	return nil
}

func (d *driver) Write(ctx context.Context, l sink.List) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres-sink: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE list = $1`, d.table.Sanitize()), l.Name); err != nil {
		return fmt.Errorf("postgres-sink: delete: %w", err)
	}
	rows := copyRows(l, time.Now().UTC())
	n, err := tx.CopyFrom(ctx, d.table, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("postgres-sink: copy: %w", err)
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("postgres-sink: copied %d of %d rows", n, len(rows))
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres-sink: commit: %w", err)
	}
	return nil
}

// copyRows lays l out in column order, one row per entry.
func copyRows(l sink.List, now time.Time) [][]any {
	rows := make([][]any, len(l.Entries))
	for i, e := range l.Entries {
		rows[i] = []any{l.Name, i, e, l.RunID, now}
	}
	return rows
}

func (d *driver) Close() error {
	if d.pool != nil {
		d.pool.Close()
		d.pool = nil
	}
	return nil
}

func parseIdentifier(s string) (pgx.Identifier, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("postgres-sink: invalid table %q", s)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("postgres-sink: invalid table %q", s)
		}
	}
	return pgx.Identifier(parts), nil
}

func init() {
	sink.Register("postgres", func() sink.Adapter { return &driver{} })
}
