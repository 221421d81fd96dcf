// Package sqlite stores lists in a SQLite table using database/sql. A write
// replaces every row of the list inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "modernc.org/sqlite"

	"lister/sink"
)

type Config struct {
	DSN   string `yaml:"dsn"`   // e.g. "file:lists.db?_pragma=busy_timeout(5000)"
	Table string `yaml:"table"` // defaults to list_entries
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type driver struct {
	cfg Config
	db  *sql.DB
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("sqlite-sink: expected Config, got %T", raw)
	}
	if c.DSN == "" {
		return fmt.Errorf("sqlite-sink: dsn must not be empty")
	}
	if c.Table == "" {
		c.Table = "list_entries"
	}
	if !identRe.MatchString(c.Table) {
		return fmt.Errorf("sqlite-sink: invalid table name %q", c.Table)
	}

	db, err := sql.Open("sqlite", c.DSN)
	if err != nil {
		return fmt.Errorf("sqlite-sink: open: %w", err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	list       TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	entry      TEXT    NOT NULL,
	run_id     TEXT    NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (list, position)
)`, c.Table)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return fmt.Errorf("sqlite-sink: create table: %w", err)
	}
	d.cfg, d.db = c, db
	return nil
}

func (d *driver) Write(ctx context.Context, l sink.List) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite-sink: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE list = ?`, d.cfg.Table), l.Name); err != nil {
		return fmt.Errorf("sqlite-sink: delete: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (list, position, entry, run_id, updated_at) VALUES (?, ?, ?, ?, ?)`, d.cfg.Table))
	if err != nil {
		return fmt.Errorf("sqlite-sink: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, e := range l.Entries {
		if _, err = stmt.ExecContext(ctx, l.Name, i, e, l.RunID, now); err != nil {
			return fmt.Errorf("sqlite-sink: insert %d: %w", i, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite-sink: commit: %w", err)
	}
	return nil
}

func (d *driver) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

func init() {
	sink.Register("sqlite", func() sink.Adapter { return &driver{} })
}
