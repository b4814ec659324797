package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gdpdash/application/queries/bus"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Query metrics
	Queries       *prometheus.CounterVec
	QueryErrors   *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Dataset metrics
	DatasetCountries prometheus.Gauge
	DatasetYears     prometheus.Gauge
}

// NewCollector creates a collector with its own registry, so several can coexist in tests.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of dispatched queries",
			},
			[]string{"query"},
		),
		QueryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_errors_total",
				Help:      "Total number of failed queries",
			},
			[]string{"query"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Query handling duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
		),
		DatasetCountries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_countries",
				Help:      "Number of countries in the loaded table",
			},
		),
		DatasetYears: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_years",
				Help:      "Number of year columns in the loaded table",
			},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.Queries,
		c.QueryErrors,
		c.QueryDuration,
		c.CacheHits,
		c.CacheMisses,
		c.DatasetCountries,
		c.DatasetYears,
	)

	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SetDataset records the shape of the loaded table
func (c *Collector) SetDataset(countries, years int) {
	c.DatasetCountries.Set(float64(countries))
	c.DatasetYears.Set(float64(years))
}

// RecordCacheHit counts a cache hit
func (c *Collector) RecordCacheHit() { c.CacheHits.Inc() }

// RecordCacheMiss counts a cache miss
func (c *Collector) RecordCacheMiss() { c.CacheMisses.Inc() }

// Increment implements bus.Metrics. Unknown metric names are ignored.
func (c *Collector) Increment(metric, label string) {
	switch metric {
	case "query_count":
		c.Queries.WithLabelValues(label).Inc()
	case "query_errors":
		c.QueryErrors.WithLabelValues(label).Inc()
	case "cache_hits":
		c.CacheHits.Inc()
	case "cache_misses":
		c.CacheMisses.Inc()
	}
}

// StartTimer implements bus.Metrics
func (c *Collector) StartTimer(metric, label string) bus.Timer {
	if metric != "query_duration" {
		return noopTimer{}
	}
	return promTimer{prometheus.NewTimer(c.QueryDuration.WithLabelValues(label))}
}

type promTimer struct{ t *prometheus.Timer }

func (p promTimer) Stop() { p.t.ObserveDuration() }

type noopTimer struct{}

func (noopTimer) Stop() {}

var _ bus.Metrics = (*Collector)(nil)
