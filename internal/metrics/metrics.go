// Package metrics exposes Prometheus collectors for the analysis service.
//
// Collectors live on a private registry so tests can build as many
// instances as they like without colliding on the global one.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/dqi/internal/dqi"
)

const namespace = "dqi"

// Analysis outcomes used as the "outcome" label.
const (
	OutcomeSuccess  = "success"
	OutcomeNoData   = "no_data"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	analyses  *prometheus.CounterVec
	duration  prometheus.Histogram
	composite prometheus.Histogram
	grades    *prometheus.CounterVec
	rows      prometheus.Histogram
	pruned    prometheus.Counter
}

// New registers the collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses run, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one analysis, including the wait for a slot.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}),
		composite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "composite_score",
			Help:      "Composite quality score of analyzed files.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		grades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grade_total",
			Help:      "Analyzed files, by letter grade.",
		}, []string{"grade"}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analyzed_rows",
			Help:      "Data rows per analyzed file.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
		}),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_pruned_total",
			Help:      "Stored reports removed by retention.",
		}),
	}

	m.registry.MustRegister(
		m.analyses,
		m.duration,
		m.composite,
		m.grades,
		m.rows,
		m.pruned,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAnalysis records one finished analysis attempt.
func (m *Metrics) ObserveAnalysis(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveReport records the scores of a successful analysis.
func (m *Metrics) ObserveReport(r *dqi.Report) {
	if m == nil || r == nil {
		return
	}
	m.composite.Observe(float64(r.Composite.Score))
	m.grades.WithLabelValues(string(r.Composite.Grade)).Inc()
	m.rows.Observe(float64(r.Metadata.RowCount))
}

// ObservePruned adds n to the retention counter.
func (m *Metrics) ObservePruned(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.pruned.Add(float64(n))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
