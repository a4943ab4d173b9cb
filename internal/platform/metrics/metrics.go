package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level Prometheus metrics of the service.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	Requests        *prometheus.CounterVec
	DataUnavailable *prometheus.CounterVec
}

// New creates and registers the HTTP metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "povertymap_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route pattern",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method"}),

		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "povertymap_http_requests_total",
			Help: "HTTP requests by route pattern and status",
		}, []string{"route", "method", "status"}),

		DataUnavailable: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "povertymap_data_unavailable_total",
			Help: "Views answered with a data-unavailable payload, by error code",
		}, []string{"code"}),
	}
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(route, method string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// IncrementDataUnavailable counts a view served without data.
func (m *Metrics) IncrementDataUnavailable(code string) {
	if m != nil {
		m.DataUnavailable.WithLabelValues(code).Inc()
	}
}
