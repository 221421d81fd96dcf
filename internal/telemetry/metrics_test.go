package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveEvaluate(t *testing.T) {
	ObserveEvaluate("t-ok", 5*time.Millisecond, 42, nil)
	if got := testutil.ToFloat64(Entries.WithLabelValues("t-ok")); got != 42 {
		t.Fatalf("entries gauge: want 42, got %v", got)
	}

	ObserveEvaluate("t-bad", time.Millisecond, 0, errors.New("boom"))
	if got := testutil.ToFloat64(PipelineErrors.WithLabelValues("t-bad")); got != 1 {
		t.Fatalf("error counter: want 1, got %v", got)
	}
}

func TestObserveFetch(t *testing.T) {
	ObserveFetch("t-fetch", nil)
	ObserveFetch("t-fetch", errors.New("down"))
	ObserveFetch("t-fetch", nil)
	if got := testutil.ToFloat64(FetchTotal.WithLabelValues("t-fetch", "ok")); got != 2 {
		t.Fatalf("ok fetches: want 2, got %v", got)
	}
	if got := testutil.ToFloat64(FetchTotal.WithLabelValues("t-fetch", "error")); got != 1 {
		t.Fatalf("failed fetches: want 1, got %v", got)
	}
}
