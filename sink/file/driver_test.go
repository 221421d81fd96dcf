package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lister/sink"
)

func newDriver(t *testing.T) (*driver, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "db")
	d := &driver{}
	if err := d.Configure(Config{Dir: dir}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	return d, dir
}

func TestWrite_ReplacesList(t *testing.T) {
	d, dir := newDriver(t)
	ctx := context.Background()

	if err := d.Write(ctx, sink.List{Name: "trancos", Entries: []string{"europa.eu", "example.com"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := d.Write(ctx, sink.List{Name: "trancos", Entries: []string{"example.org"}}); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "trancos"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "example.org\n" {
		t.Fatalf("unexpected content %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "trancos-temp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestWrite_UnchangedListIsSkipped(t *testing.T) {
	d, dir := newDriver(t)
	ctx := context.Background()
	l := sink.List{Name: "coins", Entries: []string{"bitcoin.org"}}
	if err := d.Write(ctx, l); err != nil {
		t.Fatalf("Write: %v", err)
	}

	target := filepath.Join(dir, "coins")
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(target, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := d.Write(ctx, l); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	fi, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !fi.ModTime().Equal(old) {
		t.Fatalf("unchanged list rewritten: mtime %v, want %v", fi.ModTime(), old)
	}
}

func TestWrite_RejectsPathInName(t *testing.T) {
	d, _ := newDriver(t)
	if err := d.Write(context.Background(), sink.List{Name: "../etc/passwd"}); err == nil {
		t.Fatal("expected error for list name with separator")
	}
}

func TestRegistered(t *testing.T) {
	if _, err := sink.NewAdapter("file"); err != nil {
		t.Fatalf("file sink not registered: %v", err)
	}
}
