// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector. Build one per process with New.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ReceiptsProcessed  *prometheus.CounterVec
	ExtractedRows      *prometheus.CounterVec
	ReconciledItems    *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec
	RecipeSuggestions  *prometheus.CounterVec
	PantryOperations   *prometheus.CounterVec
	ExpiringItems      prometheus.Gauge
}

// New registers the collectors on reg under the given name prefix.
func New(reg prometheus.Registerer, prefix string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		ReceiptsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_receipts_processed_total",
				Help: "Receipts sent for extraction, by outcome",
			},
			[]string{"outcome"},
		),
		ExtractedRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_extracted_rows_total",
				Help: "Receipt rows parsed or dropped as malformed",
			},
			[]string{"result"},
		),
		ReconciledItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_reconciled_items_total",
				Help: "Receipt rows written to the pantry, by outcome",
			},
			[]string{"outcome"},
		),
		LLMRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_llm_request_duration_seconds",
				Help:    "Latency of external model calls",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 45, 60},
			},
			[]string{"provider", "purpose", "status"},
		),
		RecipeSuggestions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_recipe_suggestions_total",
				Help: "Recipe suggestions served, by source",
			},
			[]string{"source"},
		),
		PantryOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_pantry_operations_total",
				Help: "Pantry write operations",
			},
			[]string{"operation"},
		),
		ExpiringItems: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_expiring_items",
				Help: "Active items inside the alert window at the last sweep",
			},
		),
	}
}

// ObserveLLM records one model call.
func (m *Metrics) ObserveLLM(provider, purpose string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LLMRequestDuration.WithLabelValues(provider, purpose, status).Observe(time.Since(start).Seconds())
}

// RecordPantryOperation increments the counter for a pantry write.
func (m *Metrics) RecordPantryOperation(operation string) {
	m.PantryOperations.WithLabelValues(operation).Inc()
}
