package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveUpstream(t *testing.T) {
	m := New()
	m.ObserveUpstream("GET", 200, 10*time.Millisecond)
	m.ObserveUpstream("GET", 200, 20*time.Millisecond)
	m.ObserveUpstream("POST", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("POST", StatusTransport)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.UpstreamRequestDurationSeconds))
}

func TestObserveInvocation(t *testing.T) {
	m := New()
	m.ObserveInvocation("balance", "ok")
	m.ObserveInvocation("balance", "validation")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvocationsTotal.WithLabelValues("balance", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvocationsTotal.WithLabelValues("balance", "validation")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveUpstream("GET", 500, time.Millisecond)
	m.ObserveInvocation("x", "ok")
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveUpstream("GET", 404, time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `bancs_upstream_requests_total{method="GET",status="404"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
