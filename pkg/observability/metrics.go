package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application. Each collector
// owns its registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Graph metrics
	RecordsCreated    *prometheus.CounterVec
	RecordsDeleted    *prometheus.CounterVec
	CascadeRemovals   *prometheus.CounterVec
	TagsPropagated    prometheus.Counter
	EventPublishFails prometheus.Counter

	// News metrics
	NewsFetches *prometheus.CounterVec
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RecordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Records created, by kind",
		}, []string{"kind"}),
		RecordsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_deleted_total",
			Help:      "Records deleted directly, by kind",
		}, []string{"kind"}),
		CascadeRemovals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_removals_total",
			Help:      "Dependent records removed by point deletion, by kind",
		}, []string{"kind"}),
		TagsPropagated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "note_tag_propagations_total",
			Help:      "Note updates that unioned tags into their point",
		}),
		EventPublishFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Domain events that could not be published",
		}),
		NewsFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "news_fetches_total",
			Help:      "Upstream news fetches, by outcome",
		}, []string{"status"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		}),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.RecordsCreated,
		c.RecordsDeleted,
		c.CascadeRemovals,
		c.TagsPropagated,
		c.EventPublishFails,
		c.NewsFetches,
		c.CacheHits,
		c.CacheMisses,
	)

	return c
}

// RecordCreated counts a created record of the given kind
func (c *Collector) RecordCreated(kind string) {
	if c == nil {
		return
	}
	c.RecordsCreated.WithLabelValues(kind).Inc()
}

// RecordDeleted counts a directly deleted record of the given kind
func (c *Collector) RecordDeleted(kind string) {
	if c == nil {
		return
	}
	c.RecordsDeleted.WithLabelValues(kind).Inc()
}

// RecordCascade counts dependents removed by a point deletion
func (c *Collector) RecordCascade(kind string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.CascadeRemovals.WithLabelValues(kind).Add(float64(n))
}

// RecordPropagation counts a note-to-point tag propagation
func (c *Collector) RecordPropagation() {
	if c == nil {
		return
	}
	c.TagsPropagated.Inc()
}

// RecordPublishFailure counts an event that failed to publish
func (c *Collector) RecordPublishFailure() {
	if c == nil {
		return
	}
	c.EventPublishFails.Inc()
}

// RecordNewsFetch counts an upstream news fetch
func (c *Collector) RecordNewsFetch(ok bool) {
	if c == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	c.NewsFetches.WithLabelValues(status).Inc()
}

// RecordCache counts a cache lookup
func (c *Collector) RecordCache(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.CacheHits.Inc()
		return
	}
	c.CacheMisses.Inc()
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the collector's registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
