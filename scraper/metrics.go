package scraper

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry         *prometheus.Registry
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	ProductsTotal    *prometheus.CounterVec
	BlocksSkipped    *prometheus.CounterVec
	ContainerMissing *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
	LastRunTimestamp prometheus.Gauge
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_requests_total",
			Help: "Search page requests issued, by site and HTTP status.",
		},
		[]string{"site", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scraper_request_duration_seconds",
			Help:    "Search page request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"site"},
	)
	products := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_products_extracted_total",
			Help: "Products extracted from search pages.",
		},
		[]string{"site"},
	)
	skipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_blocks_skipped_total",
			Help: "Listing blocks skipped because a required field was missing.",
		},
		[]string{"site", "field"},
	)
	containerMissing := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_container_missing_total",
			Help: "Pages where the listing container was not found.",
		},
		[]string{"site"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Fetch errors by site and type.",
		},
		[]string{"site", "error_type"},
	)
	lastRun := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scraper_last_run_timestamp_seconds",
			Help: "Unix time the last scrape run finished.",
		},
	)

	registry.MustRegister(requests, requestDuration, products, skipped, containerMissing, errorsTotal, lastRun)

	return &Metrics{
		Registry:         registry,
		RequestsTotal:    requests,
		RequestDuration:  requestDuration,
		ProductsTotal:    products,
		BlocksSkipped:    skipped,
		ContainerMissing: containerMissing,
		ErrorsTotal:      errorsTotal,
		LastRunTimestamp: lastRun,
	}
}

// IncRequest counts a completed request.
func (m *Metrics) IncRequest(site string, status int) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(site, fmt.Sprint(status)).Inc()
}

// ObserveDuration records a request duration.
func (m *Metrics) ObserveDuration(site string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(site).Observe(d.Seconds())
}

// AddProducts adds n extracted products for a site.
func (m *Metrics) AddProducts(site string, n int) {
	if m == nil {
		return
	}
	m.ProductsTotal.WithLabelValues(site).Add(float64(n))
}

// IncSkipped counts a listing block dropped for a missing field.
func (m *Metrics) IncSkipped(site, field string) {
	if m == nil {
		return
	}
	m.BlocksSkipped.WithLabelValues(site, field).Inc()
}

// IncContainerMissing counts a page without a listing container.
func (m *Metrics) IncContainerMissing(site string) {
	if m == nil {
		return
	}
	m.ContainerMissing.WithLabelValues(site).Inc()
}

// IncError counts a fetch error for a type label.
func (m *Metrics) IncError(site, errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(site, errorType).Inc()
}

// MarkRun stamps the completion time of a run.
func (m *Metrics) MarkRun(t time.Time) {
	if m == nil {
		return
	}
	m.LastRunTimestamp.Set(float64(t.Unix()))
}

// WriteTextfile dumps the registry in the text exposition format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
