package telemetry

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveQuery(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveQuery("QuayDepartures", 0.2, nil)
	m.ObserveQuery("QuayDepartures", 0.4, nil)
	m.ObserveQuery("StopQuays", 1.5, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("QuayDepartures", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("StopQuays", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("StopQuays", "ok")))
}

func TestCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.AddRendered(5)
	m.AddRendered(2)
	m.IncMalformed()

	assert.Equal(t, 7.0, testutil.ToFloat64(m.DeparturesRendered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MalformedCallsTotal))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveQuery("StopQuays", 1, nil)
		m.AddRendered(3)
		m.IncMalformed()
	})
}

func TestNewRegistryExposesBuildInfo(t *testing.T) {
	registry := NewRegistry("1.2.3", "abc123")

	families, err := registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, family := range families {
		if family.GetName() == "itus_build_info" {
			found = true
			labels := family.GetMetric()[0].GetLabel()
			values := map[string]string{}
			for _, l := range labels {
				values[l.GetName()] = l.GetValue()
			}
			assert.Equal(t, "1.2.3", values["version"])
			assert.Equal(t, "abc123", values["git_commit"])
		}
	}
	assert.True(t, found)
}
