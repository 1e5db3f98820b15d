// Package metrics records generation runs as Prometheus metrics and
// pushes them to a Pushgateway. A generation is a batch job with no
// endpoint to scrape, so the push is the only delivery path.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Job is the Pushgateway job name.
const Job = "definegen"

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder holds the metrics of one process on a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	duration    prometheus.Histogram
	definitions *prometheus.GaugeVec
	pruned      prometheus.Gauge
	size        prometheus.Gauge
}

// New creates a Recorder with all metrics registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "definegen",
			Name:      "runs_total",
			Help:      "Document generations by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "definegen",
			Name:      "run_duration_seconds",
			Help:      "Wall time of one document generation.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		definitions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "definegen",
			Name:      "definitions",
			Help:      "Definitions emitted in the last document, by kind.",
		}, []string{"kind"}),
		pruned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "definegen",
			Name:      "pruned_definitions",
			Help:      "Unreferenced definitions dropped from the last document.",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "definegen",
			Name:      "document_bytes",
			Help:      "Size of the last serialized document.",
		}),
	}
	r.registry.MustRegister(r.runs, r.duration, r.definitions, r.pruned, r.size)
	return r
}

// Registry exposes the registry for tests and custom gatherers.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordRun counts one run and observes its duration.
func (r *Recorder) RecordRun(outcome string, elapsed time.Duration) {
	r.runs.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// RecordDocument sets the per-kind definition counts of the last document.
func (r *Recorder) RecordDocument(counts map[string]int, pruned, size int) {
	for kind, n := range counts {
		r.definitions.WithLabelValues(kind).Set(float64(n))
	}
	r.pruned.Set(float64(pruned))
	r.size.Set(float64(size))
}

// Push sends every metric to the Pushgateway at url, replacing the
// previous push of the same job and instance.
func (r *Recorder) Push(ctx context.Context, url, instance string) error {
	p := push.New(url, Job).Gatherer(r.registry)
	if instance != "" {
		p = p.Grouping("instance", instance)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
