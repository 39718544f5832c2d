package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	recordsServedTotal prometheus.Counter
	recordBytesServed  prometheus.Counter
	lookupErrorsTotal  *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riegeli_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riegeli_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		recordsServedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "riegeli_records_served_total",
				Help: "Total number of records served",
			},
		),

		recordBytesServed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "riegeli_record_bytes_served_total",
				Help: "Total record payload bytes served",
			},
		),

		lookupErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riegeli_record_lookup_errors_total",
				Help: "Total number of failed record lookups",
			},
			[]string{"reason"},
		),
	}
}

// statusRecorder captures the response status code for instrumentation
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// InstrumentHandler wraps a handler with request counting and timing
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		handler(rec, r)

		m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(rec.status)).Inc()
		m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}
