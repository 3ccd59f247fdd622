package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FortuneMetrics counts product events for the /-/metrics endpoint.
type FortuneMetrics struct {
	served  *prometheus.CounterVec
	unlocks *prometheus.CounterVec
	oracle  *prometheus.HistogramVec
}

// NewFortuneMetrics registers the counters on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewFortuneMetrics(reg prometheus.Registerer) *FortuneMetrics {
	factory := promauto.With(reg)

	return &FortuneMetrics{
		served: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horoscope",
			Name:      "fortunes_served_total",
			Help:      "Fortunes returned to readers, by source and access level.",
		}, []string{"source", "access"}),
		unlocks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horoscope",
			Name:      "unlocks_total",
			Help:      "Unlock attempts by outcome.",
		}, []string{"result"}),
		oracle: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "horoscope",
			Name:      "oracle_call_seconds",
			Help:      "Latency of language model calls.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"kind", "outcome"}),
	}
}

// FortuneServed records one fortune handed out.
func (m *FortuneMetrics) FortuneServed(source, access string) {
	if m == nil {
		return
	}

	m.served.WithLabelValues(source, access).Inc()
}

// Unlock records an unlock attempt: "unlocked", "already" or "no_points".
func (m *FortuneMetrics) Unlock(result string) {
	if m == nil {
		return
	}

	m.unlocks.WithLabelValues(result).Inc()
}

// OracleCall records the duration of a language model call.
func (m *FortuneMetrics) OracleCall(kind, outcome string, seconds float64) {
	if m == nil {
		return
	}

	m.oracle.WithLabelValues(kind, outcome).Observe(seconds)
}
