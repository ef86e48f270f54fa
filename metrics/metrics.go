package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors the admin server exposes on /metrics
type Metrics struct {
	registry *prometheus.Registry

	QuotesGenerated  *prometheus.CounterVec
	QuotePages       prometheus.Histogram
	CatalogRefreshes *prometheus.CounterVec
	CatalogVariants  prometheus.Gauge
	FetchDuration    *prometheus.HistogramVec
	ActiveSessions   prometheus.Gauge
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		QuotesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rta",
			Name:      "quotes_generated_total",
			Help:      "Quote PDFs generated, by outcome.",
		}, []string{"outcome"}),
		QuotePages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rta",
			Name:      "quote_pages",
			Help:      "Pages per generated quote.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13},
		}),
		CatalogRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rta",
			Name:      "catalog_refreshes_total",
			Help:      "Catalog reloads, by outcome.",
		}, []string{"outcome"}),
		CatalogVariants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rta",
			Name:      "catalog_variants",
			Help:      "Variants in the current catalog index.",
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rta",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of calls to the content API and the catalog source.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rta",
			Name:      "estimate_sessions",
			Help:      "Open estimate sessions.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.QuotesGenerated,
		m.QuotePages,
		m.CatalogRefreshes,
		m.CatalogVariants,
		m.FetchDuration,
		m.ActiveSessions,
	)
	return m
}

// ObserveFetch records how long op took since start. Nil receivers are ignored.
func (m *Metrics) ObserveFetch(op string, start time.Time) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// QuoteGenerated counts one quote with the given outcome ("ok", "archive_failed", "error")
func (m *Metrics) QuoteGenerated(outcome string, pages int) {
	if m == nil {
		return
	}
	m.QuotesGenerated.WithLabelValues(outcome).Inc()
	if pages > 0 {
		m.QuotePages.Observe(float64(pages))
	}
}

// CatalogRefreshed counts one catalog reload
func (m *Metrics) CatalogRefreshed(outcome string, variants int) {
	if m == nil {
		return
	}
	m.CatalogRefreshes.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.CatalogVariants.Set(float64(variants))
	}
}

// SetSessions publishes the number of open estimate sessions
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry, mostly for tests
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
