package engine

import (
	"context"
	"sync"

	"lister/internal/logging"
	"lister/internal/pipeline"
	"lister/internal/transport"
)

type Engine struct {
	transport *transport.Server
	control   *transport.Control
	runner    *pipeline.Runner

	wg sync.WaitGroup
}

// Run refreshes every configured list once, then serves the control API
// until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	if e.runner != nil {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			runID, err := e.runner.RunAll(ctx)
			if err != nil {
				logging.L().Error("initial run failed", "run_id", runID, "err", err)
				return
			}
			logging.L().Info("initial run finished", "run_id", runID)
		}()
	}

	go func() {
		<-ctx.Done()
		e.transport.Stop()
	}()

	err := e.transport.Serve()
	e.wg.Wait()
	e.control.Wait()
	if e.runner != nil {
		_ = e.runner.Close()
	}
	return err
}
