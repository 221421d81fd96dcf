package config

import (
	"path/filepath"
	"testing"
)

func TestLoadApp_Defaults(t *testing.T) {
	app, err := LoadApp(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}
	if app != DefaultApp() {
		t.Fatalf("want defaults %+v, got %+v", DefaultApp(), app)
	}
}

func TestLoadApp_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lister.yml")
	writeFile(t, path, `lists_file: /etc/lister/lists.yml
grpc_port: 8080
concurrency: 8
log:
  level: warn
`)
	t.Setenv("LISTER__LOG__LEVEL", "debug")
	t.Setenv("LISTER__METRICS_PORT", "9200")

	app, err := LoadApp(path)
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}
	want := App{
		ListsFile:   "/etc/lister/lists.yml",
		GRPCPort:    8080,
		MetricsPort: 9200,
		Concurrency: 8,
		Log:         LogCfg{Level: "debug"},
	}
	if app != want {
		t.Fatalf("want %+v, got %+v", want, app)
	}
}
