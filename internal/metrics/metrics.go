// Package metrics registers the server's Prometheus instrumentation on a
// private registry and exposes it over /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "smartsplit"

// Metrics tracks request-level and domain-level counters.
//
// Families:
//   - smartsplit_http_request_duration_seconds: request latency by path/method
//   - smartsplit_allocations_total: allocation runs by status
//   - smartsplit_rule_parses_total: rule interpretation passes by source
//   - smartsplit_ocr_extractions_total: OCR extraction attempts by status
type Metrics struct {
	registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	allocationsTotal *prometheus.CounterVec
	ruleParsesTotal  *prometheus.CounterVec
	extractionsTotal *prometheus.CounterVec
}

// New creates and registers all metric families.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method", "status"},
		),
		allocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "allocations_total",
				Help:      "Total number of allocation runs",
			},
			[]string{"status"},
		),
		ruleParsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rule_parses_total",
				Help:      "Total number of rule interpretation passes",
			},
			[]string{"source"},
		),
		extractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ocr_extractions_total",
				Help:      "Total number of OCR extraction attempts",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.allocationsTotal,
		m.ruleParsesTotal,
		m.extractionsTotal,
	)
	return m
}

// Handler exposes the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(path, method, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(path, method, status).Observe(duration.Seconds())
}

// RecordAllocation counts an allocation run ("ok" or "invalid").
func (m *Metrics) RecordAllocation(status string) {
	m.allocationsTotal.WithLabelValues(status).Inc()
}

// RecordRuleParse counts an interpretation pass ("external" or "fallback").
func (m *Metrics) RecordRuleParse(source string) {
	m.ruleParsesTotal.WithLabelValues(source).Inc()
}

// RecordExtraction counts an OCR attempt ("ok", "error", or "unavailable").
func (m *Metrics) RecordExtraction(status string) {
	m.extractionsTotal.WithLabelValues(status).Inc()
}
