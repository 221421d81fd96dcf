package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const lists = `lists:
  - name: trancos
    url: https://tranco-list.eu/top-1m.csv
    transforms:
      - split: { delimiter: "\n" }
      - cut: { delimiter: ",", field: 1 }
`

func TestCheckFileAndSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lists.yml")
	if err := os.WriteFile(path, []byte(lists), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := checkFile(&buf, path); err != nil {
		t.Fatalf("checkFile: %v", err)
	}
	if !strings.Contains(buf.String(), "trancos\t[split | cut]") {
		t.Fatalf("unexpected summary %q", buf.String())
	}

	buf.Reset()
	if err := sample(&buf, path, "trancos", "1,europa.eu\n2,example.com\n"); err != nil {
		t.Fatalf("sample: %v", err)
	}
	if buf.String() != "europa.eu\nexample.com\n# 2 entries\n" {
		t.Fatalf("unexpected sample output %q", buf.String())
	}
	if err := sample(&buf, path, "missing", ""); err == nil {
		t.Fatal("expected error for unknown list")
	}
}

func TestIsListFile(t *testing.T) {
	for p, want := range map[string]bool{
		"configs/lists.yml":        true,
		"configs/crypto.lists.yml": true,
		"configs/fetch.yml":        false,
	} {
		if got := isListFile(p); got != want {
			t.Fatalf("%s: want %v, got %v", p, want, got)
		}
	}
}
