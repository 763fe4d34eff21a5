package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	pduRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snmplite",
			Subsystem: "agent",
			Name:      "requests_total",
			Help:      "Total PDUs processed, by kind and response status.",
		},
		[]string{"kind", "status"},
	)
	pduDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "snmplite",
			Subsystem: "agent",
			Name:      "request_duration_seconds",
			Help:      "PDU processing duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind", "status"},
	)
	connectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "snmplite",
			Subsystem: "agent",
			Name:      "connections_total",
			Help:      "Total accepted connections.",
		},
	)
	activeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "snmplite",
			Subsystem: "agent",
			Name:      "active_connections",
			Help:      "Currently open connections.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(pduRequests, pduDuration, connectionsTotal, activeConnections)
	})
}

func RecordRequest(kind, status string, duration time.Duration) {
	RegisterMetrics()
	pduRequests.WithLabelValues(kind, status).Inc()
	pduDuration.WithLabelValues(kind, status).Observe(duration.Seconds())
}

func ConnectionOpened() {
	RegisterMetrics()
	connectionsTotal.Inc()
	activeConnections.Inc()
}

func ConnectionClosed() {
	RegisterMetrics()
	activeConnections.Dec()
}

// MetricsHandler exposes the process registry for scraping.
func MetricsHandler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}
