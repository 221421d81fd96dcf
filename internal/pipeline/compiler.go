package pipeline

import (
	"fmt"
	"os"

	"lister/internal/config"
	"lister/internal/spec"
	"lister/sink"
	"lister/source/fetch"
)

func Compile(path string) (*Runner, error) {
	f, confPath, err := config.LoadListFile(path)
	if err != nil {
		return nil, err
	}
	return build(f, confPath)
}

// CompileBytes compiles an in-memory list file; dir anchors relative paths.
func CompileBytes(raw []byte, dir string) (*Runner, error) {
	f, confPath, err := config.ParseListFile(raw, dir)
	if err != nil {
		return nil, err
	}
	return build(f, confPath)
}

func build(f spec.File, confPath string) (*Runner, error) {
	r := NewRunner()
	fail := func(err error) (*Runner, error) {
		_ = r.Close()
		return nil, err
	}

	fc, err := fetch.LoadConfig(confPath)
	if err != nil {
		return nil, fmt.Errorf("fetch config: %w", err)
	}
	driver := f.Source.Driver
	if driver == "" {
		driver = "http"
	}
	src, err := fetch.NewAdapter(driver)
	if err != nil {
		return nil, err
	}
	if err := src.Configure(fc); err != nil {
		_ = src.Close()
		return nil, err
	}
	r.SetSource(src)

	for _, l := range f.Lists {
		headers := make(map[string]string, len(l.Headers))
		for k, v := range l.Headers {
			headers[k] = os.ExpandEnv(v)
		}
		r.AddJob(Job{
			Name:    l.Name,
			Request: fetch.Request{URL: l.URL, Headers: headers},
			Specs:   l.Transforms,
		})
	}

	for _, name := range f.Sinks {
		sDrv, err := sink.NewAdapter(name)
		if err != nil {
			return fail(err)
		}

		switch name {
		case "file":
			err = sDrv.Configure(f.SinkConfigs.File)
		case "stdout":
			err = sDrv.Configure(f.SinkConfigs.Stdout)
		case "sqlite":
			err = sDrv.Configure(f.SinkConfigs.SQLite)
		case "postgres":
			err = sDrv.Configure(f.SinkConfigs.Postgres)
		case "kafka":
			err = sDrv.Configure(f.SinkConfigs.Kafka)
		default:
			err = fmt.Errorf("no config block for sink %q", name)
		}
		if err != nil {
			_ = sDrv.Close()
			return fail(fmt.Errorf("sink %s: %w", name, err))
		}
		r.AddSink(sDrv)
	}
	return r, nil
}
