package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appEnvPrefix = "LISTER__"

type LogCfg struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

// App is the process-level configuration of the lister binary.
type App struct {
	ListsFile   string `koanf:"lists_file"`
	GRPCPort    int    `koanf:"grpc_port"`
	MetricsPort int    `koanf:"metrics_port"`
	Concurrency int    `koanf:"concurrency"`
	Log         LogCfg `koanf:"log"`
}

func DefaultApp() App {
	return App{
		ListsFile:   "lists.yml",
		GRPCPort:    7070,
		MetricsPort: 9100,
		Concurrency: 4,
		Log:         LogCfg{Level: "info"},
	}
}

// LoadApp reads path (a missing file is fine) and overlays LISTER__* env
// vars, e.g. LISTER__LOG__LEVEL=debug.
func LoadApp(path string) (App, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return App{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(appEnvPrefix, ".", appEnvKey), nil); err != nil {
		return App{}, err
	}

	app := DefaultApp()
	if err := k.Unmarshal("", &app); err != nil {
		return app, err
	}
	if app.Concurrency < 1 {
		app.Concurrency = 1
	}
	if app.ListsFile == "" {
		app.ListsFile = DefaultApp().ListsFile
	}
	return app, nil
}

func appEnvKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, appEnvPrefix)), "__", ".")
}
