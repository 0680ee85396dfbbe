// Package telemetry exposes the process's Prometheus metrics: decision
// counts by routing action, per-match worst-case ledger exposure, and odds
// feed request latency.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector the process registers. A *Metrics is built
// once at startup and threaded through the HTTP handlers; the feed latency
// and feed failure collectors are registered but not fed by the odds feeds.
type Metrics struct {
	DecisionsTotal  *prometheus.CounterVec
	HouseEV         prometheus.Histogram
	LedgerWorstCase *prometheus.GaugeVec
	FeedLatency     *prometheus.HistogramVec
	FeedFailures    *prometheus.CounterVec
	ArbOpportunities prometheus.Counter
}

// New builds and registers every collector against reg. Pass
// prometheus.NewRegistry() for an isolated registry in tests, or
// prometheus.DefaultRegisterer for the process default.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shadowbook_decisions_total",
			Help: "Routing decisions emitted by the risk engine, by action.",
		}, []string{"action"}),
		HouseEV: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shadowbook_house_ev",
			Help:    "Computed house expected value per evaluated ticket.",
			Buckets: prometheus.LinearBuckets(-0.10, 0.02, 12),
		}),
		LedgerWorstCase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "shadowbook_ledger_worst_case",
			Help: "Worst-case PnL across outcomes for each match currently on risk.",
		}, []string{"match_id"}),
		FeedLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shadowbook_feed_fetch_seconds",
			Help:    "Odds feed fetch latency in seconds, by feed name.",
			Buckets: prometheus.DefBuckets,
		}, []string{"feed"}),
		FeedFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shadowbook_feed_failures_total",
			Help: "Odds feed fetch failures, by feed name.",
		}, []string{"feed"}),
		ArbOpportunities: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shadowbook_arbitrage_opportunities_total",
			Help: "Arbitrage opportunities detected by the scanner across all scans.",
		}),
	}

	reg.MustRegister(
		m.DecisionsTotal,
		m.HouseEV,
		m.LedgerWorstCase,
		m.FeedLatency,
		m.FeedFailures,
		m.ArbOpportunities,
	)
	return m
}

// ObserveDecision records one risk engine decision.
func (m *Metrics) ObserveDecision(action string, houseEV float64) {
	m.DecisionsTotal.WithLabelValues(action).Inc()
	m.HouseEV.Observe(houseEV)
}

// SetLedgerWorstCase updates the worst-case gauge for one match.
func (m *Metrics) SetLedgerWorstCase(matchID string, worst float64) {
	m.LedgerWorstCase.WithLabelValues(matchID).Set(worst)
}

// ObserveFeedFetch records one odds feed fetch's latency in seconds.
func (m *Metrics) ObserveFeedFetch(feed string, seconds float64) {
	m.FeedLatency.WithLabelValues(feed).Observe(seconds)
}

// RecordFeedFailure increments the failure counter for one odds feed.
func (m *Metrics) RecordFeedFailure(feed string) {
	m.FeedFailures.WithLabelValues(feed).Inc()
}

// RecordArbitrageOpportunities increments the opportunity counter by n.
func (m *Metrics) RecordArbitrageOpportunities(n int) {
	m.ArbOpportunities.Add(float64(n))
}
