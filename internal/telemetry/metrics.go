package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lister/internal/logging"
)

var (
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lister",
		Name:      "fetch_total",
		Help:      "Resource fetches by list and outcome.",
	}, []string{"list", "status"})

	PipelineErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lister",
		Name:      "pipeline_errors_total",
		Help:      "Transform pipeline failures by list.",
	}, []string{"list"})

	EvaluateSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lister",
		Name:      "evaluate_duration_seconds",
		Help:      "Time spent evaluating a list's transform pipeline.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"list"})

	Entries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "lister",
		Name:      "entries",
		Help:      "Entries produced by the last successful run of a list.",
	}, []string{"list"})
)

func init() {
	prometheus.MustRegister(FetchTotal, PipelineErrors, EvaluateSeconds, Entries)
}

// ObserveFetch counts one fetch attempt sequence for list.
func ObserveFetch(list string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	FetchTotal.WithLabelValues(list, status).Inc()
}

// ObserveEvaluate records a pipeline evaluation of list.
func ObserveEvaluate(list string, d time.Duration, entries int, err error) {
	EvaluateSeconds.WithLabelValues(list).Observe(d.Seconds())
	if err != nil {
		PipelineErrors.WithLabelValues(list).Inc()
		return
	}
	Entries.WithLabelValues(list).Set(float64(entries))
}

func Expose(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			logging.L().Error("metrics listener stopped", "port", port, "err", err)
		}
	}()
}
