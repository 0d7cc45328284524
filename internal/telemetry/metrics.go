package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	QueriesTotal        *prometheus.CounterVec
	QueryDuration       *prometheus.HistogramVec
	DeparturesRendered  prometheus.Counter
	MalformedCallsTotal prometheus.Counter
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "itus_journeyplanner_queries_total",
				Help: "Journey planner queries by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "itus_journeyplanner_query_seconds",
				Help:    "Round trip time of journey planner queries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		DeparturesRendered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "itus_departures_rendered_total",
				Help: "Departure rows written to boards",
			},
		),
		MalformedCallsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "itus_malformed_responses_total",
				Help: "Responses rejected because a required field was missing or unparseable",
			},
		),
	}

	registry.MustRegister(
		metrics.QueriesTotal,
		metrics.QueryDuration,
		metrics.DeparturesRendered,
		metrics.MalformedCallsTotal,
	)

	return metrics
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors alongside the build info gauge.
func NewRegistry(version, gitCommit string) *prometheus.Registry {
	registry := prometheus.NewRegistry()

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "itus_build_info",
			Help: "Build metadata",
		},
		[]string{"version", "git_commit"},
	)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		buildInfo,
	)

	buildInfo.WithLabelValues(version, gitCommit).Set(1)
	return registry
}

// ObserveQuery records one round trip. A nil receiver is a no-op so callers
// without a registry can pass nil.
func (m *Metrics) ObserveQuery(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.QueriesTotal.WithLabelValues(operation, outcome).Inc()
	m.QueryDuration.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) AddRendered(n int) {
	if m == nil {
		return
	}
	m.DeparturesRendered.Add(float64(n))
}

func (m *Metrics) IncMalformed() {
	if m == nil {
		return
	}
	m.MalformedCallsTotal.Inc()
}
