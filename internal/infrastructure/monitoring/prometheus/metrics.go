package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPResponseSize    HistogramVec

	// Resolution chain
	ResolverStepTotal  CounterVec
	ResolutionsTotal   CounterVec
	ResolutionDuration HistogramVec
	BatchSize          HistogramVec

	// Upstream resolvers
	UpstreamRequestDuration HistogramVec

	// Structure-file proxy
	StructureFetchTotal CounterVec
	StructureBytes      HistogramVec

	// Inbound protection
	RateLimitRejectionsTotal CounterVec

	// System
	BuildInfo GaugeVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultUpstreamDurationBuckets = []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30, 60}
	DefaultSizeBuckets             = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
	DefaultBatchBuckets            = []float64{1, 2, 5, 10, 20, 50}
)

// Outcome labels for ResolverStepTotal and StructureFetchTotal.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// NewAppMetrics registers all metrics and returns the AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPResponseSize = collector.RegisterHistogram("http_response_size_bytes", "HTTP response size", DefaultSizeBuckets, "method", "path")

	m.ResolverStepTotal = collector.RegisterCounter("resolver_step_total", "Resolution chain step outcomes", "provider", "outcome")
	m.ResolutionsTotal = collector.RegisterCounter("resolver_resolution_total", "Completed resolutions by winning source", "source")
	m.ResolutionDuration = collector.RegisterHistogram("resolver_resolution_duration_seconds", "End-to-end resolution latency", DefaultUpstreamDurationBuckets, "source")
	m.BatchSize = collector.RegisterHistogram("resolver_batch_size", "Names per batch resolution request", DefaultBatchBuckets)

	m.UpstreamRequestDuration = collector.RegisterHistogram("upstream_request_duration_seconds", "Upstream call latency", DefaultUpstreamDurationBuckets, "provider", "operation", "status_class")

	m.StructureFetchTotal = collector.RegisterCounter("structure_fetch_total", "Structure file proxy fetches", "route", "outcome")
	m.StructureBytes = collector.RegisterHistogram("structure_fetch_bytes", "Structure file payload size", DefaultSizeBuckets, "route")

	m.RateLimitRejectionsTotal = collector.RegisterCounter("ratelimit_rejections_total", "Requests rejected by the inbound rate limiter", "backend")

	m.BuildInfo = collector.RegisterGauge("build_info", "Build information", "version")

	return m
}

// NewNopAppMetrics returns metrics that discard every observation.
func NewNopAppMetrics() *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:        noopCounterVec{},
		HTTPRequestDuration:      noopHistogramVec{},
		HTTPResponseSize:         noopHistogramVec{},
		ResolverStepTotal:        noopCounterVec{},
		ResolutionsTotal:         noopCounterVec{},
		ResolutionDuration:       noopHistogramVec{},
		BatchSize:                noopHistogramVec{},
		UpstreamRequestDuration:  noopHistogramVec{},
		StructureFetchTotal:      noopCounterVec{},
		StructureBytes:           noopHistogramVec{},
		RateLimitRejectionsTotal: noopCounterVec{},
		BuildInfo:                noopGaugeVec{},
	}
}

// Helpers.  All are nil-safe on metrics.

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration, respSize int64) {
	if metrics == nil {
		return
	}
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	if respSize >= 0 {
		metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
	}
}

func RecordResolverStep(metrics *AppMetrics, provider, outcome string) {
	if metrics == nil {
		return
	}
	metrics.ResolverStepTotal.WithLabelValues(provider, outcome).Inc()
}

func RecordResolution(metrics *AppMetrics, source string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.ResolutionsTotal.WithLabelValues(source).Inc()
	metrics.ResolutionDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func RecordBatch(metrics *AppMetrics, size int) {
	if metrics == nil {
		return
	}
	metrics.BatchSize.WithLabelValues().Observe(float64(size))
}

// RecordUpstreamCall observes one upstream HTTP exchange.  statusCode 0 means
// no response was received.
func RecordUpstreamCall(metrics *AppMetrics, provider, operation string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.UpstreamRequestDuration.WithLabelValues(provider, operation, StatusClass(statusCode)).Observe(duration.Seconds())
}

func RecordStructureFetch(metrics *AppMetrics, route, outcome string, size int) {
	if metrics == nil {
		return
	}
	metrics.StructureFetchTotal.WithLabelValues(route, outcome).Inc()
	if outcome == OutcomeHit {
		metrics.StructureBytes.WithLabelValues(route).Observe(float64(size))
	}
}

func RecordRateLimitRejection(metrics *AppMetrics, backend string) {
	if metrics == nil {
		return
	}
	metrics.RateLimitRejectionsTotal.WithLabelValues(backend).Inc()
}

// StatusClass folds an HTTP status into "2xx".."5xx", or "none" for 0.
func StatusClass(statusCode int) string {
	if statusCode <= 0 {
		return "none"
	}
	return strconv.Itoa(statusCode/100) + "xx"
}

//Personal.AI order the ending
