package snapshot

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for dataset loads.
type Metrics struct {
	LoadDuration prometheus.Histogram
	// Load outcomes by result: "ok", "cached", or an error code
	LoadOutcome  *prometheus.CounterVec
	Records      prometheus.Gauge
	LastLoadTime prometheus.Gauge
}

// NewMetrics registers the load metrics with the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		LoadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "povertymap_snapshot_load_duration_seconds",
			Help:    "Duration of a full dataset load including parsing and enrichment",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		LoadOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "povertymap_snapshot_loads_total",
			Help: "Dataset load attempts by outcome",
		}, []string{"outcome"}),
		Records: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "povertymap_snapshot_records",
			Help: "Governorate records in the current snapshot",
		}),
		LastLoadTime: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "povertymap_snapshot_last_load_timestamp_seconds",
			Help: "Unix time of the last completed load",
		}),
	}
}

// ObserveLoad records a completed (non-cached) load.
func (m *Metrics) ObserveLoad(start time.Time, outcome string, records int) {
	if m == nil {
		return
	}
	m.LoadDuration.Observe(time.Since(start).Seconds())
	m.LoadOutcome.WithLabelValues(outcome).Inc()
	m.LastLoadTime.SetToCurrentTime()
	if outcome == "ok" {
		m.Records.Set(float64(records))
	}
}

// IncrementCached records a load answered from the memo.
func (m *Metrics) IncrementCached() {
	if m != nil {
		m.LoadOutcome.WithLabelValues("cached").Inc()
	}
}
