// Package metrics provides Prometheus metrics for the advisor API
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Query pipeline metrics
	QueriesTotal       *prometheus.CounterVec
	QueryStageDuration *prometheus.HistogramVec
	RetrievedChunks    prometheus.Histogram

	// Ingestion metrics
	DocumentsLoaded  prometheus.Gauge
	FetchFailures    prometheus.Counter
	ChunksIndexed    prometheus.Gauge
	ChunksDropped    prometheus.Counter
	IngestionSeconds prometheus.Gauge

	registry prometheus.Gatherer
}

// NewMetrics creates the metrics and registers them on reg. Passing a fresh
// prometheus.NewRegistry() keeps tests isolated from the default registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.QueriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_rag_queries_total",
			Help: "RAG queries by final state",
		},
		[]string{"outcome", "stage"},
	)

	m.QueryStageDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_rag_stage_duration_seconds",
			Help:    "Duration of each RAG pipeline stage",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	m.RetrievedChunks = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "advisor_rag_retrieved_chunks",
			Help:    "Number of chunks retrieved per query",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	m.DocumentsLoaded = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_ingest_documents_loaded",
			Help: "Documents loaded during ingestion",
		},
	)

	m.FetchFailures = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_ingest_fetch_failures_total",
			Help: "Source URLs skipped because they could not be fetched",
		},
	)

	m.ChunksIndexed = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_ingest_chunks_indexed",
			Help: "Chunks held in the vector index",
		},
	)

	m.ChunksDropped = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_ingest_chunks_dropped_total",
			Help: "Chunks dropped because they could not be embedded or indexed",
		},
	)

	m.IngestionSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_ingest_duration_seconds",
			Help: "Wall time of the last ingestion run",
		},
	)

	return m
}

// ObserveStage records the duration of one pipeline stage.
func (m *Metrics) ObserveStage(stage string, started time.Time) {
	m.QueryStageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
