// Package metrics exposes Prometheus instruments for imports, stats and HTTP.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "journal"

// Row results recorded by the importer.
const (
	RowSucceeded = "succeeded"
	RowFailed    = "failed"
	RowSkipped   = "skipped"
)

// Metrics holds every instrument. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	importRows     *prometheus.CounterVec
	importsTotal   *prometheus.CounterVec
	importDuration prometheus.Histogram
	statsDuration  prometheus.Histogram
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New registers the instruments on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers on reg and serves from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: g,
		importRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Imported data rows by result.",
		}, []string{"result"}),
		importsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Import attempts by outcome.",
		}, []string{"outcome"}),
		importDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Time spent importing one file.",
			Buckets:   prometheus.DefBuckets,
		}),
		statsDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stats_duration_seconds",
			Help:      "Time spent computing period statistics.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveRows adds the per-result row counts of one import.
func (m *Metrics) ObserveRows(succeeded, failed, skipped int) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues(RowSucceeded).Add(float64(succeeded))
	m.importRows.WithLabelValues(RowFailed).Add(float64(failed))
	m.importRows.WithLabelValues(RowSkipped).Add(float64(skipped))
}

// ObserveImport records a finished or rejected import attempt.
func (m *Metrics) ObserveImport(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.importsTotal.WithLabelValues(outcome).Inc()
	m.importDuration.Observe(d.Seconds())
}

// ObserveStats records one statistics computation.
func (m *Metrics) ObserveStats(d time.Duration) {
	if m == nil {
		return
	}
	m.statsDuration.Observe(d.Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
