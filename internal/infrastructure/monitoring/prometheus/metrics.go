package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Auth
	AuthAttemptsTotal CounterVec

	// Upstream patent API
	UpstreamRequestsTotal   CounterVec
	UpstreamRequestDuration HistogramVec
	UpstreamBreakerState    GaugeVec

	// Patent search and enrichment
	PatentSearchResultCount HistogramVec
	EnrichmentTotal         CounterVec

	// Graph
	GraphBuildsTotal   CounterVec
	GraphBuildDuration HistogramVec
	GraphNodes         HistogramVec

	// Stores
	StoreQueryDuration HistogramVec
	StoreErrorsTotal   CounterVec
	CacheHitsTotal     CounterVec
	CacheMissesTotal   CounterVec

	// Messaging
	EventsPublishedTotal CounterVec
	EventsConsumedTotal  CounterVec

	// Health
	HealthCheckStatus GaugeVec
}

var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultUpstreamDurationBuckets = []float64{.05, .1, .25, .5, 1, 2, 5, 10, 20, 30}
	DefaultDBDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultGraphSizeBuckets        = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500}
	DefaultResultCountBuckets      = []float64{0, 1, 5, 10, 25, 50, 100}
)

// Outcome label values shared by the Record helpers.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
	OutcomeEmpty   = "empty"
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.AuthAttemptsTotal = collector.RegisterCounter("auth_attempts_total", "Authentication attempts", "action", "result")

	m.UpstreamRequestsTotal = collector.RegisterCounter("upstream_requests_total", "Patent API calls", "operation", "outcome")
	m.UpstreamRequestDuration = collector.RegisterHistogram("upstream_request_duration_seconds", "Patent API call duration", DefaultUpstreamDurationBuckets, "operation")
	m.UpstreamBreakerState = collector.RegisterGauge("upstream_breaker_state", "Circuit breaker state (0=closed, 1=half-open, 2=open)", "name")

	m.PatentSearchResultCount = collector.RegisterHistogram("patent_search_result_count", "Records returned per search", DefaultResultCountBuckets, "source")
	m.EnrichmentTotal = collector.RegisterCounter("patent_enrichment_total", "Per-record detail enrichment outcomes", "outcome")

	m.GraphBuildsTotal = collector.RegisterCounter("graph_builds_total", "Litigation graph builds", "outcome")
	m.GraphBuildDuration = collector.RegisterHistogram("graph_build_duration_seconds", "Litigation graph build duration", DefaultDBDurationBuckets, "query")
	m.GraphNodes = collector.RegisterHistogram("graph_nodes", "Nodes per built graph", DefaultGraphSizeBuckets)

	m.StoreQueryDuration = collector.RegisterHistogram("store_query_duration_seconds", "Store query duration", DefaultDBDurationBuckets, "store", "operation")
	m.StoreErrorsTotal = collector.RegisterCounter("store_errors_total", "Store query errors", "store", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Domain events published", "topic", "outcome")
	m.EventsConsumedTotal = collector.RegisterCounter("events_consumed_total", "Domain events consumed", "topic", "outcome")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

// NewNopAppMetrics returns metrics that record nothing.
func NewNopAppMetrics() *AppMetrics {
	return NewAppMetrics(NewNopCollector())
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// Helpers. Every helper tolerates a nil *AppMetrics.

func RecordHTTPRequest(metrics *AppMetrics, method, route string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest bumps the in-flight gauge and returns the matching
// decrement.
func TrackActiveRequest(metrics *AppMetrics, method string) func() {
	if metrics == nil {
		return func() {}
	}
	g := metrics.HTTPActiveRequests.WithLabelValues(method)
	g.Inc()
	return g.Dec
}

func RecordAuthAttempt(metrics *AppMetrics, action string, err error) {
	if metrics == nil {
		return
	}
	metrics.AuthAttemptsTotal.WithLabelValues(action, outcome(err)).Inc()
}

func RecordUpstreamCall(metrics *AppMetrics, operation string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(operation, outcome(err)).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func RecordBreakerState(metrics *AppMetrics, name string, state int) {
	if metrics == nil {
		return
	}
	metrics.UpstreamBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordSearchResults observes the size of a search response. source is
// "cache" or "upstream".
func RecordSearchResults(metrics *AppMetrics, source string, n int) {
	if metrics == nil {
		return
	}
	metrics.PatentSearchResultCount.WithLabelValues(source).Observe(float64(n))
}

func RecordEnrichment(metrics *AppMetrics, outcome string) {
	if metrics == nil {
		return
	}
	metrics.EnrichmentTotal.WithLabelValues(outcome).Inc()
}

// RecordGraphBuild counts one build. nodes < 0 means no graph was produced.
func RecordGraphBuild(metrics *AppMetrics, query string, nodes int, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	metrics.GraphBuildDuration.WithLabelValues(query).Observe(duration.Seconds())
	switch {
	case err != nil:
		metrics.GraphBuildsTotal.WithLabelValues(OutcomeFailure).Inc()
	case nodes < 0:
		metrics.GraphBuildsTotal.WithLabelValues(OutcomeEmpty).Inc()
	default:
		metrics.GraphBuildsTotal.WithLabelValues(OutcomeSuccess).Inc()
		metrics.GraphNodes.WithLabelValues().Observe(float64(nodes))
	}
}

func RecordStoreQuery(metrics *AppMetrics, store, operation string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	metrics.StoreQueryDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues(store, operation).Inc()
	}
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if metrics == nil {
		return
	}
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordEventPublished(metrics *AppMetrics, topic string, err error) {
	if metrics == nil {
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(topic, outcome(err)).Inc()
}

func RecordEventConsumed(metrics *AppMetrics, topic string, err error) {
	if metrics == nil {
		return
	}
	metrics.EventsConsumedTotal.WithLabelValues(topic, outcome(err)).Inc()
}

func RecordHealth(metrics *AppMetrics, component string, up bool) {
	if metrics == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	metrics.HealthCheckStatus.WithLabelValues(component).Set(v)
}

//Personal.AI order the ending
