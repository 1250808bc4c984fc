// Package metrics holds the Prometheus collectors exported on /metrics.
//
// Collectors live on a private registry owned by a Metrics value, so tests
// and multiple servers in one process never collide. A nil *Metrics is valid
// and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/LadybugDB/bugscope/internal/apperror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics is the set of collectors for one server instance.
type Metrics struct {
	registry *prometheus.Registry

	queriesTotal    *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	operationsTotal *prometheus.CounterVec
	graphNodes      *prometheus.HistogramVec
	graphLinks      *prometheus.HistogramVec
	rpcEventsTotal  *prometheus.CounterVec
	rpcClients      prometheus.Gauge
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	sizeBuckets := prometheus.ExponentialBuckets(1, 4, 8)

	return &Metrics{
		registry: reg,
		queriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bugscope_queries_total",
				Help: "Total number of engine query executions",
			},
			[]string{"stage", "status"},
		),
		queryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bugscope_query_duration_seconds",
				Help:    "Engine query latency in seconds, including open and connect",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bugscope_operations_total",
				Help: "Total number of frontend operations by outcome",
			},
			[]string{"operation", "result"},
		),
		graphNodes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bugscope_graph_nodes",
				Help:    "Number of nodes in projected graphs",
				Buckets: sizeBuckets,
			},
			[]string{"mode"},
		),
		graphLinks: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bugscope_graph_links",
				Help:    "Number of links in projected graphs",
				Buckets: sizeBuckets,
			},
			[]string{"mode"},
		),
		rpcEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bugscope_rpc_events_total",
				Help: "Total number of socket.io events handled",
			},
			[]string{"event", "status"},
		),
		rpcClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bugscope_rpc_clients",
				Help: "Number of connected socket.io clients",
			},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the exposition handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveQuery records one executor call. err decides the status; the stage
// label is taken from err, or "done" on success.
func (m *Metrics) ObserveQuery(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status, stage := StatusOK, "done"
	if err != nil {
		status = StatusError
		stage = string(apperror.StageOf(err))
		if stage == "" {
			stage = "unknown"
		}
	}
	m.queriesTotal.WithLabelValues(stage, status).Inc()
	m.queryDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// ObserveOperation records the outcome of a frontend operation, labelled
// with the apperror kind on failure.
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := StatusOK
	if err != nil {
		result = apperror.KindOf(err).String()
	}
	m.operationsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveGraph records the size of a projected graph.
func (m *Metrics) ObserveGraph(mode string, nodes, links int) {
	if m == nil {
		return
	}
	m.graphNodes.WithLabelValues(mode).Observe(float64(nodes))
	m.graphLinks.WithLabelValues(mode).Observe(float64(links))
}

// ObserveEvent records one handled socket.io event.
func (m *Metrics) ObserveEvent(event string, ok bool) {
	if m == nil {
		return
	}
	status := StatusOK
	if !ok {
		status = StatusError
	}
	m.rpcEventsTotal.WithLabelValues(event, status).Inc()
}

// ClientConnected and ClientDisconnected track live socket.io clients.
func (m *Metrics) ClientConnected() {
	if m != nil {
		m.rpcClients.Inc()
	}
}

func (m *Metrics) ClientDisconnected() {
	if m != nil {
		m.rpcClients.Dec()
	}
}
