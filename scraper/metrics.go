package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ItemsEmitted    prometheus.Counter
	ItemsSkipped    *prometheus.CounterVec
	RetriesTotal    prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
	PublishSource   *prometheus.CounterVec
	Categories      *prometheus.CounterVec
	SnapshotsTotal  *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_requests_total",
			Help: "Total HTTP requests issued by the scraper, by page kind.",
		},
		[]string{"kind"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scraper_request_duration_seconds",
			Help:    "HTTP request latency for scraper requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	itemsEmitted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_items_emitted_total",
			Help: "Total number of records sent to the pipeline.",
		},
	)
	itemsSkipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_items_skipped_total",
			Help: "Listing tiles that did not produce a record, by reason.",
		},
		[]string{"reason"},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_retries_total",
			Help: "Total number of retry attempts made.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of scraper errors by type.",
		},
		[]string{"error_type"},
	)
	publishSource := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_publish_source_total",
			Help: "Records by the tier that resolved their publish time.",
		},
		[]string{"source"},
	)
	categories := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_category_total",
			Help: "Records by the cascade stage that produced their category.",
		},
		[]string{"stage"},
	)
	snapshots := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_snapshots_total",
			Help: "Rendered snapshot attempts by outcome.",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(requests, requestDuration, itemsEmitted, itemsSkipped, retries,
		errorsTotal, publishSource, categories, snapshots)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		ItemsEmitted:    itemsEmitted,
		ItemsSkipped:    itemsSkipped,
		RetriesTotal:    retries,
		ErrorsTotal:     errorsTotal,
		PublishSource:   publishSource,
		Categories:      categories,
		SnapshotsTotal:  snapshots,
	}
}

// IncRequest increments the requests counter for a page kind.
func (m *Metrics) IncRequest(kind string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(kind).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// IncItems increments the emitted records counter.
func (m *Metrics) IncItems() {
	if m == nil {
		return
	}
	m.ItemsEmitted.Inc()
}

// IncSkipped counts a tile dropped for reason.
func (m *Metrics) IncSkipped(reason string) {
	if m == nil {
		return
	}
	m.ItemsSkipped.WithLabelValues(reason).Inc()
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// ObserveRecord counts the publish tier and category stage of an emitted record.
func (m *Metrics) ObserveRecord(publishSource, categoryStage string) {
	if m == nil {
		return
	}
	m.PublishSource.WithLabelValues(publishSource).Inc()
	m.Categories.WithLabelValues(categoryStage).Inc()
}

// IncSnapshot counts a rendered snapshot attempt.
func (m *Metrics) IncSnapshot(outcome string) {
	if m == nil {
		return
	}
	m.SnapshotsTotal.WithLabelValues(outcome).Inc()
}
