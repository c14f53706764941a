package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Chat metrics
	chatRequests     *prometheus.CounterVec
	chatDuration     *prometheus.HistogramVec
	streamTokens     prometheus.Counter
	sseStreamsActive prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.chatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatrelay_chat_requests_total",
			Help: "Total number of chat requests by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)
	r.chatDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatrelay_chat_duration_seconds",
			Help:    "Time from provider call to final answer or failure",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"mode"},
	)
	r.streamTokens = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatrelay_stream_tokens_total",
			Help: "Total number of text fragments relayed to streaming clients",
		},
	)
	r.sseStreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatrelay_sse_streams_active",
			Help: "Number of open server-sent event streams",
		},
	)

	reg.MustRegister(r.chatRequests)
	reg.MustRegister(r.chatDuration)
	reg.MustRegister(r.streamTokens)
	reg.MustRegister(r.sseStreamsActive)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordChat records a finished chat call.
func (r *Registry) RecordChat(mode, outcome string, seconds float64) {
	r.chatRequests.WithLabelValues(mode, outcome).Inc()
	r.chatDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordStreamToken counts one relayed fragment.
func (r *Registry) RecordStreamToken() {
	r.streamTokens.Inc()
}

// StreamOpened marks an SSE response as started.
func (r *Registry) StreamOpened() {
	r.sseStreamsActive.Inc()
}

// StreamClosed marks an SSE response as finished.
func (r *Registry) StreamClosed() {
	r.sseStreamsActive.Dec()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
