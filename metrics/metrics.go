// Package metrics collects this service's Prometheus metrics: relay
// broadcast/room activity and participant ceremony/round outcomes.
// Grounded on luxfi-consensus's metrics package (prometheus.Registerer +
// per-metric constructors registered against it) but scoped to this
// module's own counters rather than that package's generic
// Counter/Gauge/Averager abstractions.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every collector this service exports, backed by its own
// Registry rather than the global default so relay/http and cmd/* can
// serve exactly these metrics and nothing pulled in transitively.
type Metrics struct {
	Registry *prometheus.Registry

	BroadcastsTotal  *prometheus.CounterVec
	RoomsActive      prometheus.Gauge
	SubscribersTotal prometheus.Gauge

	CeremoniesStarted   *prometheus.CounterVec
	CeremoniesCompleted *prometheus.CounterVec
	RoundDuration       *prometheus.HistogramVec
}

// New builds and registers every collector against a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		BroadcastsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpcwaas",
			Subsystem: "relay",
			Name:      "broadcasts_total",
			Help:      "Envelopes accepted by the relay, by outcome.",
		}, []string{"outcome"}),
		RoomsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mpcwaas",
			Subsystem: "relay",
			Name:      "rooms_active",
			Help:      "Rooms currently tracked by the relay.",
		}),
		SubscribersTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mpcwaas",
			Subsystem: "relay",
			Name:      "subscribers_active",
			Help:      "Live SSE subscriptions across all rooms.",
		}),
		CeremoniesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpcwaas",
			Subsystem: "participant",
			Name:      "ceremonies_started_total",
			Help:      "Ceremonies started, by kind.",
		}, []string{"kind"}),
		CeremoniesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpcwaas",
			Subsystem: "participant",
			Name:      "ceremonies_completed_total",
			Help:      "Ceremonies reaching a terminal state, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RoundDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mpcwaas",
			Subsystem: "participant",
			Name:      "round_duration_seconds",
			Help:      "Wall-clock time a ceremony spent in one round before finalizing.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.BroadcastsTotal, m.RoomsActive, m.SubscribersTotal,
		m.CeremoniesStarted, m.CeremoniesCompleted, m.RoundDuration,
	)
	return m
}
