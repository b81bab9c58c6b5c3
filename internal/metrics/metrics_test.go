package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Houeta/stock-flow/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordFetchSuccess()
	c.RecordFetchSuccess()
	c.RecordFetchFailure("status")
	c.RecordHTTPStatus(http.StatusOK)
	c.RecordHTTPStatus(http.StatusServiceUnavailable)
	c.RecordFetchLatency(150 * time.Millisecond)
	c.RecordCacheHit()
	c.RecordCacheMiss()
	c.RecordCacheMiss()
	c.RecordParseFailure()
	c.RecordCycle(2, 1, 3)

	expected := `
# HELP stockflow_fetch_success_total Product API fetches that returned data.
# TYPE stockflow_fetch_success_total counter
stockflow_fetch_success_total 2
# HELP stockflow_fetch_fail_total Product API fetches that returned no data, by reason.
# TYPE stockflow_fetch_fail_total counter
stockflow_fetch_fail_total{reason="status"} 1
# HELP stockflow_cache_requests_total Response cache lookups by result.
# TYPE stockflow_cache_requests_total counter
stockflow_cache_requests_total{result="hit"} 1
stockflow_cache_requests_total{result="miss"} 2
# HELP stockflow_products_skipped_total Products skipped by polling cycles.
# TYPE stockflow_products_skipped_total counter
stockflow_products_skipped_total 1
`
	err := testutil.GatherAndCompare(
		reg,
		strings.NewReader(expected),
		"stockflow_fetch_success_total",
		"stockflow_fetch_fail_total",
		"stockflow_cache_requests_total",
		"stockflow_products_skipped_total",
	)
	require.NoError(t, err)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)
	c.RecordCacheHit()

	srv := httptest.NewServer(metrics.Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `stockflow_cache_requests_total{result="hit"} 1`)
}

func TestNop(t *testing.T) {
	var r metrics.Recorder = metrics.Nop{}

	assert.NotPanics(t, func() {
		r.RecordFetchSuccess()
		r.RecordFetchFailure("x")
		r.RecordHTTPStatus(500)
		r.RecordFetchLatency(time.Second)
		r.RecordCacheHit()
		r.RecordCacheMiss()
		r.RecordParseFailure()
		r.RecordCycle(1, 1, 1)
	})
}
