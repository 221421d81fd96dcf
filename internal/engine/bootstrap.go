package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"lister/internal/config"
	"lister/internal/logging"
	"lister/internal/pipeline"
	"lister/internal/telemetry"
	"lister/internal/transport"
)

func Bootstrap(ctx context.Context, cfg config.App) (*Engine, error) {
	dir, err := filepath.Abs(filepath.Dir(cfg.ListsFile))
	if err != nil {
		return nil, err
	}

	// 1. pipeline runner, optional
	var runner *pipeline.Runner
	if _, err := os.Stat(cfg.ListsFile); err == nil {
		runner, err = pipeline.Compile(cfg.ListsFile)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		runner.SetConcurrency(cfg.Concurrency)
	} else if errors.Is(err, fs.ErrNotExist) {
		logging.L().Warn("no lists file, waiting for deploys", "path", cfg.ListsFile)
	} else {
		return nil, err
	}

	// 2. transport server
	ctl := transport.NewControl(ctx, dir, cfg.Concurrency)
	srv, err := transport.StartServer(cfg.GRPCPort, ctl)
	if err != nil {
		if runner != nil {
			_ = runner.Close()
		}
		return nil, fmt.Errorf("transport: %w", err)
	}

	// 3. metrics
	telemetry.Expose(cfg.MetricsPort)

	logging.L().Info("engine ready", "grpc", srv.Addr().String(), "metrics_port", cfg.MetricsPort)
	return &Engine{
		transport: srv,
		control:   ctl,
		runner:    runner,
	}, nil
}
