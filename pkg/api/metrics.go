package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/luxgrid/pxld/pkg/codec"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// File and decode metrics
	filesOpen           prometheus.Gauge
	framesDecodedTotal  prometheus.Counter
	decodeErrorsTotal   *prometheus.CounterVec
	slaveBytesReadTotal prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pxld_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pxld_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pxld_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		filesOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pxld_files_open",
				Help: "Number of capture files currently registered",
			},
		),

		framesDecodedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pxld_frames_decoded_total",
				Help: "Total number of frames decoded",
			},
		),

		decodeErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pxld_decode_errors_total",
				Help: "Total number of decode failures by error kind",
			},
			[]string{"kind"},
		),

		slaveBytesReadTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pxld_slave_bytes_read_total",
				Help: "Total canonical pixel bytes served from slave reads",
			},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// SetFilesOpen updates the registered-file gauge
func (m *Metrics) SetFilesOpen(n int) {
	m.filesOpen.Set(float64(n))
}

// RecordFrameDecode records the outcome of a frame decode
func (m *Metrics) RecordFrameDecode(err error) {
	if err == nil {
		m.framesDecodedTotal.Inc()
		return
	}
	var ferr *codec.FormatError
	if errors.As(err, &ferr) {
		m.decodeErrorsTotal.WithLabelValues(ferr.Kind.String()).Inc()
		return
	}
	m.decodeErrorsTotal.WithLabelValues("io").Inc()
}

// RecordSlaveRead records canonical bytes served from a slave read
func (m *Metrics) RecordSlaveRead(n int) {
	m.slaveBytesReadTotal.Add(float64(n))
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Record request in flight
		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Create response writer wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Call the original handler
		handler(rw, r)

		// Record metrics
		duration := time.Since(start)
		m.RecordHTTPRequest(method, endpoint, rw.statusCode, duration)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
