package viewcache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the view cache.
type Metrics struct {
	Lookups        *prometheus.CounterVec
	Errors         *prometheus.CounterVec
	RenderDuration prometheus.Histogram
}

// NewMetrics registers the cache metrics with the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "povertymap_view_cache_lookups_total",
			Help: "View cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss"

		Errors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "povertymap_view_cache_errors_total",
			Help: "View cache backend failures by operation",
		}, []string{"op"}),

		RenderDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "povertymap_view_render_duration_seconds",
			Help:    "Duration of chart and workbook rendering on cache miss",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) IncrementHit() {
	if m != nil {
		m.Lookups.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) IncrementMiss() {
	if m != nil {
		m.Lookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) IncrementError(op string) {
	if m != nil {
		m.Errors.WithLabelValues(op).Inc()
	}
}

// ObserveRender records the duration of one rendering.
func (m *Metrics) ObserveRender(start time.Time) {
	if m != nil {
		m.RenderDuration.Observe(time.Since(start).Seconds())
	}
}
