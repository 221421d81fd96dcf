package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"lister/internal/spec"
)

const SupportedSchema = "v1"

// LoadListFile parses a list file, validates it, and returns the parsed file
// and an absolute path to the fetch config (if set).
func LoadListFile(path string) (spec.File, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return spec.File{}, "", err
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return spec.File{}, "", err
	}
	f, conf, err := ParseListFile(raw, dir)
	if err != nil {
		return f, "", fmt.Errorf("%s: %w", path, err)
	}
	return f, conf, nil
}

// ParseListFile is LoadListFile over bytes; a relative source config is
// resolved against dir.
func ParseListFile(raw []byte, dir string) (spec.File, string, error) {
	var f spec.File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return f, "", err
	}
	if f.SchemaVersion == "" {
		f.SchemaVersion = SupportedSchema
	}
	if f.SchemaVersion != SupportedSchema {
		return f, "", fmt.Errorf("list file schema_version %q not supported (want %q)", f.SchemaVersion, SupportedSchema)
	}
	if err := f.Validate(); err != nil {
		return f, "", err
	}
	confPath := f.Source.Config
	if confPath != "" && !filepath.IsAbs(confPath) {
		confPath = filepath.Join(dir, confPath)
	}
	return f, confPath, nil
}
