// Package metrics holds the Prometheus collectors for upstream calls and
// endpoint invocations. Each Metrics owns its registry so tests and multiple
// servers in one process do not collide.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status label values used when no HTTP status is available.
const (
	StatusTransport = "transport"
)

// Metrics bundles the collectors.
type Metrics struct {
	registry *prometheus.Registry

	UpstreamRequestsTotal          *prometheus.CounterVec
	UpstreamRequestDurationSeconds *prometheus.HistogramVec
	InvocationsTotal               *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, including the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		UpstreamRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bancs_upstream_requests_total",
			Help: "Total number of requests sent to the upstream API",
		}, []string{"method", "status"}),
		UpstreamRequestDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bancs_upstream_request_duration_seconds",
			Help:    "Time spent waiting for the upstream API in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		InvocationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bancs_endpoint_invocations_total",
			Help: "Total number of endpoint invocations by outcome",
		}, []string{"endpoint", "outcome"}),
	}
}

// ObserveUpstream records one upstream call. status is 0 when the call
// failed before a response arrived.
func (m *Metrics) ObserveUpstream(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := StatusTransport
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.UpstreamRequestsTotal.WithLabelValues(method, label).Inc()
	m.UpstreamRequestDurationSeconds.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveInvocation records the outcome of a dispatcher invocation.
// outcome is "ok" or an error kind.
func (m *Metrics) ObserveInvocation(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.InvocationsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
