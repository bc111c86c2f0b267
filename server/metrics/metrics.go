package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for optimizer_requests_total
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics owns a private registry so tests can create as many as they need
type Metrics struct {
	registry *prometheus.Registry

	Requests     *prometheus.CounterVec
	GraphNodes   prometheus.Histogram
	Duration     prometheus.Histogram
	CacheHits    prometheus.Counter
	HTTPRequests *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "optimizer_requests_total",
			Help: "Optimization requests by outcome",
		}, []string{"source", "outcome"}),
		GraphNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "optimizer_graph_nodes",
			Help:    "Node count of optimized networks",
			Buckets: prometheus.ExponentialBuckets(2, 4, 10),
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "optimizer_duration_seconds",
			Help:    "Time spent computing total distances",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12),
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "optimizer_cache_hits_total",
			Help: "Optimization results served from the cache",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_server_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
	reg.MustRegister(m.Requests, m.GraphNodes, m.Duration, m.CacheHits, m.HTTPRequests)

	return m
}

// ObserveRun records one optimization. A nil receiver is a no-op.
func (m *Metrics) ObserveRun(source, outcome string, nodes int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(source, outcome).Inc()
	if outcome == OutcomeOK {
		m.GraphNodes.Observe(float64(nodes))
		m.Duration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
