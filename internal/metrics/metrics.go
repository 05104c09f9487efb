// Package metrics exposes the relay's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"poolPulse/internal/model"
)

// Poll round outcomes.
const (
	RoundOK     = "ok"
	RoundFailed = "failed"
	RoundEmpty  = "empty"
)

// Metrics holds every collector. A nil *Metrics is valid and records
// nothing, so tests can pass nil instead of wiring a registry.
type Metrics struct {
	pollRounds         *prometheus.CounterVec
	failureCount       prometheus.Gauge
	transactionsLocked prometheus.Gauge
	upstreamDown       prometheus.Gauge
	forcedRefreshes    prometheus.Counter
	broadcasts         *prometheus.CounterVec
	connectedClients   prometheus.Gauge
}

// New registers the relay collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		pollRounds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "poolpulse_poll_rounds_total",
			Help: "Polling rounds by outcome (ok, failed, empty).",
		}, []string{"outcome"}),
		failureCount: factory.NewGauge(prometheus.GaugeOpts{
			Name: "poolpulse_failure_count",
			Help: "Consecutive fully failed polling rounds.",
		}),
		transactionsLocked: factory.NewGauge(prometheus.GaugeOpts{
			Name: "poolpulse_transactions_locked",
			Help: "1 while write operations are refused.",
		}),
		upstreamDown: factory.NewGauge(prometheus.GaugeOpts{
			Name: "poolpulse_upstream_down",
			Help: "1 while the upstream is considered offline.",
		}),
		forcedRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Name: "poolpulse_forced_refreshes_total",
			Help: "Out-of-band single-pool refreshes after writes.",
		}),
		broadcasts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "poolpulse_broadcasts_total",
			Help: "Gateway broadcasts by kind (pools, health).",
		}, []string{"kind"}),
		connectedClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "poolpulse_connected_clients",
			Help: "Currently connected WebSocket clients.",
		}),
	}
}

// ObserveRound counts one polling round.
func (m *Metrics) ObserveRound(outcome string) {
	if m == nil {
		return
	}
	m.pollRounds.WithLabelValues(outcome).Inc()
}

// SetHealth mirrors the health gates into gauges.
func (m *Metrics) SetHealth(status model.HealthStatus) {
	if m == nil {
		return
	}
	m.failureCount.Set(float64(status.FailureCount))
	m.transactionsLocked.Set(boolGauge(status.IsTransactionsLocked))
	m.upstreamDown.Set(boolGauge(status.IsDown))
}

// IncForcedRefresh counts one forced refresh.
func (m *Metrics) IncForcedRefresh() {
	if m == nil {
		return
	}
	m.forcedRefreshes.Inc()
}

// IncBroadcast counts one broadcast of the given kind.
func (m *Metrics) IncBroadcast(kind string) {
	if m == nil {
		return
	}
	m.broadcasts.WithLabelValues(kind).Inc()
}

// SetConnectedClients records the live client count.
func (m *Metrics) SetConnectedClients(n int) {
	if m == nil {
		return
	}
	m.connectedClients.Set(float64(n))
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
