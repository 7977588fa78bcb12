// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application's collectors around one registry.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests      *prometheus.CounterVec
	RPCDuration      *prometheus.HistogramVec
	LedgerComputes   *prometheus.CounterVec
	TransfersEmitted prometheus.Histogram
	LedgerImbalance  prometheus.Histogram
}

// New creates the collectors and registers them, plus the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payrecord",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "payrecord",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		LedgerComputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payrecord",
			Name:      "ledger_computations_total",
			Help:      "Balance computations by kind (balances, simplify).",
		}, []string{"kind"}),
		TransfersEmitted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "payrecord",
			Name:      "ledger_transfers_emitted",
			Help:      "Number of transfers in each settlement plan.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		LedgerImbalance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "payrecord",
			Name:      "ledger_imbalance_abs",
			Help:      "Absolute sum of net balances per computation; near zero when conserved.",
			Buckets:   []float64{1e-9, 1e-6, 1e-3, 0.01, 0.1, 1},
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RPCRequests,
		m.RPCDuration,
		m.LedgerComputes,
		m.TransfersEmitted,
		m.LedgerImbalance,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
