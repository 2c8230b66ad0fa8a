package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsScrapeExposesRecordedSeries(t *testing.T) {
	m := NewMetrics("casetrack_test")

	m.ObserveHTTPRequest(http.MethodGet, "/ml/supervised/risk", "200", 12*time.Millisecond)
	m.ObserveAnalyticsRun("risk", "ok", 42, 80*time.Millisecond)
	m.ObserveUpstreamFailure("plazos")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `casetrack_test_http_requests_total{method="GET",path="/ml/supervised/risk",status="200"} 1`)
	assert.Contains(t, body, `casetrack_test_analytics_runs_total{operation="risk",status="ok"} 1`)
	assert.Contains(t, body, `casetrack_test_upstream_fetch_failures_total{upstream="plazos"} 1`)
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	// Two instances must register without panicking: each owns its registry.
	a := NewMetrics("ns_a")
	b := NewMetrics("ns_b")
	a.ObserveUpstreamFailure("documentos")
	b.ObserveUpstreamFailure("documentos")
}
