package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "splitwise_mcp"

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on the global one. A nil *Metrics is a no-op.
type Metrics struct {
	registry     *prometheus.Registry
	rpcRequests  *prometheus.CounterVec
	rpcDuration  *prometheus.HistogramVec
	backendCalls *prometheus.CounterVec
	connections  *prometheus.GaugeVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "JSON-RPC messages dispatched, by method and outcome.",
		}, []string{"method", "outcome"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Time spent dispatching a JSON-RPC message.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_backend_calls_total",
			Help:      "Adapter calls forwarded to the WebSocket backend, by route and outcome.",
		}, []string{"route", "outcome"}),
		connections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_connections",
			Help:      "Currently open long-lived connections, by transport.",
		}, []string{"transport"}),
	}

	reg.MustRegister(m.rpcRequests, m.rpcDuration, m.backendCalls, m.connections)
	return m
}

func (m *Metrics) ObserveRPC(method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(method, outcome).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) ObserveBackend(route, outcome string) {
	if m == nil {
		return
	}
	m.backendCalls.WithLabelValues(route, outcome).Inc()
}

// ConnOpened increments the gauge and returns the matching decrement.
func (m *Metrics) ConnOpened(transport string) func() {
	if m == nil {
		return func() {}
	}
	g := m.connections.WithLabelValues(transport)
	g.Inc()
	return g.Dec
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
