package prometheus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllMetricsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.ResolverStepTotal)
	assert.NotNil(t, m.ResolutionsTotal)
	assert.NotNil(t, m.UpstreamRequestDuration)
	assert.NotNil(t, m.StructureFetchTotal)
	assert.NotNil(t, m.RateLimitRejectionsTotal)
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordHTTPRequest(m, "POST", "/api/molecule/resolve", 200, 100*time.Millisecond, 512)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_http_requests_total{method="POST",path="/api/molecule/resolve",status_code="200"} 1`)
	assert.Contains(t, out, `test_unit_http_response_size_bytes_sum{method="POST",path="/api/molecule/resolve"} 512`)
	assert.Contains(t, out, `test_unit_http_request_duration_seconds_count{method="POST",path="/api/molecule/resolve"} 1`)
}

func TestRecordResolverStepAndResolution(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordResolverStep(m, "pubchem", OutcomeError)
	RecordResolverStep(m, "opsin", OutcomeHit)
	RecordResolution(m, "opsin", 30*time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_resolver_step_total{outcome="error",provider="pubchem"} 1`)
	assert.Contains(t, out, `test_unit_resolver_step_total{outcome="hit",provider="opsin"} 1`)
	assert.Contains(t, out, `test_unit_resolver_resolution_total{source="opsin"} 1`)
}

func TestRecordUpstreamCall_StatusClass(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordUpstreamCall(m, "cir", "smiles", 404, time.Millisecond)
	RecordUpstreamCall(m, "cir", "smiles", 0, time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `status_class="4xx"`)
	assert.Contains(t, out, `status_class="none"`)
}

func TestRecordStructureFetch(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordStructureFetch(m, "cid", OutcomeHit, 2048)
	RecordStructureFetch(m, "smiles", OutcomeError, 0)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_structure_fetch_total{outcome="hit",route="cid"} 1`)
	assert.Contains(t, out, `test_unit_structure_fetch_bytes_sum{route="cid"} 2048`)
	assert.Contains(t, out, `test_unit_structure_fetch_total{outcome="error",route="smiles"} 1`)
}

func TestRecordHelpers_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordHTTPRequest(nil, "GET", "/", 200, 0, 0)
		RecordResolverStep(nil, "x", OutcomeHit)
		RecordResolution(nil, "x", 0)
		RecordBatch(nil, 1)
		RecordUpstreamCall(nil, "x", "y", 200, 0)
		RecordStructureFetch(nil, "cid", OutcomeHit, 1)
		RecordRateLimitRejection(nil, "memory")
	})
}

func TestNewNopAppMetrics(t *testing.T) {
	m := NewNopAppMetrics()
	assert.NotPanics(t, func() {
		RecordResolution(m, "catalog", time.Millisecond)
		RecordBatch(m, 3)
		m.BuildInfo.WithLabelValues("dev").Set(1)
	})
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", StatusClass(200))
	assert.Equal(t, "5xx", StatusClass(503))
	assert.Equal(t, "none", StatusClass(0))
}

//Personal.AI order the ending
