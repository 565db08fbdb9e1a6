package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider records lookup metrics. It satisfies weather.Metrics.
type Provider interface {
	ObserveLookup(trigger, outcome string, d time.Duration)
	SetHistorySize(n int)
}

type PrometheusProvider struct {
	lookupsTotal   *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
	historyEntries prometheus.Gauge
}

func (m *PrometheusProvider) ObserveLookup(trigger, outcome string, d time.Duration) {
	m.lookupsTotal.WithLabelValues(trigger, outcome).Inc()
	m.lookupDuration.WithLabelValues(trigger).Observe(d.Seconds())
}

func (m *PrometheusProvider) SetHistorySize(n int) {
	m.historyEntries.Set(float64(n))
}

// New registers the collectors on reg. A nil reg or enabled=false yields a no-op provider.
func New(reg prometheus.Registerer, enabled bool) Provider {
	if !enabled || reg == nil {
		return &noopMetrics{}
	}

	factory := promauto.With(reg)
	return &PrometheusProvider{
		lookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "skycast_lookups_total",
			Help: "Total number of weather lookups by trigger and outcome",
		}, []string{"trigger", "outcome"}),

		lookupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skycast_lookup_duration_seconds",
			Help:    "Weather lookup duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"trigger"}),

		historyEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "skycast_history_entries",
			Help: "Number of entries in the lookup history",
		}),
	}
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) ObserveLookup(_, _ string, _ time.Duration) {}
func (n *noopMetrics) SetHistorySize(_ int)                       {}
