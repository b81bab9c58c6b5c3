// Package metrics collects Prometheus metrics for the polling engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is used by the fetcher, scraper and checker to report what happened.
type Recorder interface {
	RecordFetchSuccess()
	RecordFetchFailure(reason string)
	RecordHTTPStatus(statusCode int)
	RecordFetchLatency(duration time.Duration)
	RecordCacheHit()
	RecordCacheMiss()
	RecordParseFailure()
	RecordCycle(updated, skipped, alerts int)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	fetchSuccess  prometheus.Counter
	fetchFail     *prometheus.CounterVec
	httpStatus    *prometheus.CounterVec
	fetchLatency  prometheus.Histogram
	cacheRequests *prometheus.CounterVec
	parseFail     prometheus.Counter
	updated       prometheus.Counter
	skipped       prometheus.Counter
	alerts        prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics in reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		fetchSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockflow_fetch_success_total",
			Help: "Product API fetches that returned data.",
		}),
		fetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockflow_fetch_fail_total",
			Help: "Product API fetches that returned no data, by reason.",
		}, []string{"reason"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockflow_http_status_total",
			Help: "Product API responses by status code.",
		}, []string{"status_code"}),
		fetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockflow_fetch_latency_seconds",
			Help:    "Latency of a single product API request.",
			Buckets: prometheus.DefBuckets,
		}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockflow_cache_requests_total",
			Help: "Response cache lookups by result.",
		}, []string{"result"}),
		parseFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockflow_parse_fail_total",
			Help: "Payloads that could not be turned into a snapshot.",
		}),
		updated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockflow_products_updated_total",
			Help: "Products successfully refreshed by polling cycles.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockflow_products_skipped_total",
			Help: "Products skipped by polling cycles.",
		}),
		alerts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockflow_stock_alerts_total",
			Help: "Desired-size availability alerts raised.",
		}),
	}

	reg.MustRegister(
		c.fetchSuccess,
		c.fetchFail,
		c.httpStatus,
		c.fetchLatency,
		c.cacheRequests,
		c.parseFail,
		c.updated,
		c.skipped,
		c.alerts,
	)

	return c
}

func (c *Collector) RecordFetchSuccess() {
	c.fetchSuccess.Inc()
}

func (c *Collector) RecordFetchFailure(reason string) {
	c.fetchFail.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordFetchLatency(duration time.Duration) {
	c.fetchLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordCacheHit() {
	c.cacheRequests.WithLabelValues("hit").Inc()
}

func (c *Collector) RecordCacheMiss() {
	c.cacheRequests.WithLabelValues("miss").Inc()
}

func (c *Collector) RecordParseFailure() {
	c.parseFail.Inc()
}

// RecordCycle adds the totals of one polling cycle.
func (c *Collector) RecordCycle(updated, skipped, alerts int) {
	c.updated.Add(float64(updated))
	c.skipped.Add(float64(skipped))
	c.alerts.Add(float64(alerts))
}

// Handler returns the HTTP handler serving /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordFetchSuccess() {}
func (Nop) RecordFetchFailure(string) {}
func (Nop) RecordHTTPStatus(int) {}
func (Nop) RecordFetchLatency(time.Duration) {}
func (Nop) RecordCacheHit() {}
func (Nop) RecordCacheMiss() {}
func (Nop) RecordParseFailure() {}
func (Nop) RecordCycle(_, _, _ int) {}
