package spec

import (
	"errors"
	"fmt"

	"lister/internal/transform"
	"lister/sink/file"
	"lister/sink/kafka"
	"lister/sink/postgres"
	"lister/sink/sqlite"
	"lister/sink/stdout"
)

type sinkConfigs struct {
	File     file.Config     `yaml:"file"`
	Stdout   stdout.Config   `yaml:"stdout"`
	SQLite   sqlite.Config   `yaml:"sqlite"`
	Postgres postgres.Config `yaml:"postgres"`
	Kafka    kafka.Config    `yaml:"kafka"`
}

// ListSpec describes one list: where to fetch it and how to turn the
// response into entries. Header values may reference ${ENV} variables.
type ListSpec struct {
	Name       string            `yaml:"name"`
	URL        string            `yaml:"url"`
	Headers    map[string]string `yaml:"headers"`
	Transforms []transform.Spec  `yaml:"transforms"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Source struct {
		Driver string `yaml:"driver"` // "http" (default) or "file"
		Config string `yaml:"config"` // fetch config, relative to this file
	} `yaml:"source"`

	Lists []ListSpec `yaml:"lists"`

	Sinks       []string    `yaml:"sinks"`
	SinkConfigs sinkConfigs `yaml:"sink_configs"`
}

// Validate checks list names and URLs and builds every transformer once so
// malformed specs fail at load time rather than on the first fetch.
func (f *File) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(f.Lists))
	for i, l := range f.Lists {
		if l.Name == "" {
			errs = append(errs, fmt.Errorf("lists[%d]: name must not be empty", i))
		} else if _, dup := seen[l.Name]; dup {
			errs = append(errs, fmt.Errorf("lists[%d]: duplicate name %q", i, l.Name))
		}
		seen[l.Name] = struct{}{}
		if l.URL == "" {
			errs = append(errs, fmt.Errorf("list %q: url must not be empty", l.Name))
		}
		for j, s := range l.Transforms {
			if _, err := transform.New(s); err != nil {
				errs = append(errs, fmt.Errorf("list %q: transforms[%d]: %w", l.Name, j, err))
			}
		}
	}
	return errors.Join(errs...)
}

// List returns the list with the given name.
func (f *File) List(name string) (ListSpec, bool) {
	for _, l := range f.Lists {
		if l.Name == name {
			return l, true
		}
	}
	return ListSpec{}, false
}
