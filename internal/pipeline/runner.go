package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lister/internal/logging"
	"lister/internal/telemetry"
	"lister/internal/transform"
	"lister/sink"
	"lister/source/fetch"
)

// Job is one compiled list: the request to fetch and the steps to apply.
type Job struct {
	Name    string
	Request fetch.Request
	Specs   []transform.Spec
}

type Runner struct {
	source fetch.Adapter
	sinks  []sink.Adapter

	jobs  map[string]Job
	order []string
	limit int
}

func NewRunner() *Runner { return &Runner{jobs: map[string]Job{}, limit: 1} }

func (r *Runner) AddSink(s sink.Adapter)    { r.sinks = append(r.sinks, s) }
func (r *Runner) SetSource(s fetch.Adapter) { r.source = s }

// SetConcurrency bounds how many lists RunAll processes at once.
func (r *Runner) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	r.limit = n
}

func (r *Runner) AddJob(j Job) {
	if _, ok := r.jobs[j.Name]; !ok {
		r.order = append(r.order, j.Name)
	}
	r.jobs[j.Name] = j
}

// Names lists the jobs in declaration order.
func (r *Runner) Names() []string { return append([]string(nil), r.order...) }

// Run fetches, evaluates and stores one list. Nothing is written to the
// sinks unless fetch and evaluation both succeed. Sinks are written in order
// and the first failing sink stops the run: sinks before it already hold the
// new list while the rest keep the previous one. The returned *SinkError
// names both.
func (r *Runner) Run(ctx context.Context, name string) (sink.List, error) {
	return r.run(ctx, name, uuid.NewString())
}

func (r *Runner) run(ctx context.Context, name, runID string) (sink.List, error) {
	if r.source == nil {
		return sink.List{}, errors.New("runner: no source configured")
	}
	job, ok := r.jobs[name]
	if !ok {
		return sink.List{}, fmt.Errorf("runner: unknown list %q", name)
	}
	log := logging.L().With("list", name, "run_id", runID)

	body, err := r.source.Fetch(ctx, job.Request)
	telemetry.ObserveFetch(name, err)
	if err != nil {
		log.Error("fetch failed", "url", job.Request.URL, "err", err)
		return sink.List{}, fmt.Errorf("list %s: %w", name, err)
	}

	start := time.Now()
	entries, err := Evaluate(job.Specs, body)
	telemetry.ObserveEvaluate(name, time.Since(start), len(entries), err)
	if err != nil {
		log.Error("evaluate failed", "err", err)
		return sink.List{}, fmt.Errorf("list %s: %w", name, err)
	}

	l := sink.List{Name: name, RunID: runID, Entries: entries}
	written := make([]string, 0, len(r.sinks))
	for _, s := range r.sinks {
		if err := s.Write(ctx, l); err != nil {
			se := &SinkError{Sink: sinkName(s), Written: written, Err: err}
			log.Error("sink write failed", "sink", se.Sink, "already_written", written, "err", err)
			return l, fmt.Errorf("list %s: %w", name, se)
		}
		written = append(written, sinkName(s))
	}
	log.Info("list updated", "entries", len(entries), "bytes", len(body))
	return l, nil
}

// SinkError reports a failed sink write. Written lists the sinks that had
// already stored the list in the same run.
type SinkError struct {
	Sink    string
	Written []string
	Err     error
}

func (e *SinkError) Error() string {
	if len(e.Written) == 0 {
		return fmt.Sprintf("sink %s: %v", e.Sink, e.Err)
	}
	return fmt.Sprintf("sink %s: %v (already written: %s)", e.Sink, e.Err, strings.Join(e.Written, ", "))
}

func (e *SinkError) Unwrap() error { return e.Err }

func sinkName(s sink.Adapter) string { return fmt.Sprintf("%T", s) }

// RunAll runs the named lists, or every list when names is empty, sharing
// one run id. A failing list does not stop the others; the first error is
// returned.
func (r *Runner) RunAll(ctx context.Context, names ...string) (string, error) {
	if len(names) == 0 {
		names = r.order
	}
	for _, n := range names {
		if _, ok := r.jobs[n]; !ok {
			return "", fmt.Errorf("runner: unknown list %q", n)
		}
	}
	runID := uuid.NewString()

	var g errgroup.Group
	g.SetLimit(r.limit)
	for _, n := range names {
		g.Go(func() error {
			_, err := r.run(ctx, n, runID)
			return err
		})
	}
	return runID, g.Wait()
}

func (r *Runner) Close() error {
	var errs []error
	if r.source != nil {
		errs = append(errs, r.source.Close())
	}
	for _, s := range r.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
