package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	m := &dto.Metric{}
	require.NoError(t, (<-ch).Write(m))
	return m.GetCounter().GetValue()
}

func TestMetrics_ObserveDecisionIncrementsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDecision("ACCEPT_B_BOOK", 0.04)
	m.ObserveDecision("ACCEPT_B_BOOK", 0.02)
	m.ObserveDecision("REJECT", -0.06)

	assert.Equal(t, 2.0, counterValue(t, m.DecisionsTotal.WithLabelValues("ACCEPT_B_BOOK")))
	assert.Equal(t, 1.0, counterValue(t, m.DecisionsTotal.WithLabelValues("REJECT")))
}

func TestMetrics_SetLedgerWorstCaseIsPerMatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetLedgerWorstCase("Home vs Away", -1500)
	m.SetLedgerWorstCase("Big vs Small", 300)

	gathered, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, gathered)

	var series int
	for _, mf := range gathered {
		if mf.GetName() == "shadowbook_ledger_worst_case" {
			series = len(mf.GetMetric())
		}
	}
	assert.Equal(t, 2, series, "each match gets its own worst-case series")
}

func TestMetrics_RecordFeedFailureIncrements(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordFeedFailure("pinnacle")
	m.RecordFeedFailure("pinnacle")

	assert.Equal(t, 2.0, counterValue(t, m.FeedFailures.WithLabelValues("pinnacle")))
}

func TestMetrics_RecordArbitrageOpportunities(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordArbitrageOpportunities(3)
	m.RecordArbitrageOpportunities(2)

	assert.Equal(t, 5.0, counterValue(t, m.ArbOpportunities))
}
