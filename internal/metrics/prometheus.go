package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder backed by a Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	registrations     *prometheus.CounterVec
	logins            *prometheus.CounterVec
	tokenVerification *prometheus.CounterVec
	rateLimited       prometheus.Counter
	requestDuration   *prometheus.HistogramVec
	auditPublished    *prometheus.CounterVec
	auditProcessed    *prometheus.CounterVec
}

// NewPrometheus creates a PrometheusRecorder with its own registry.
func NewPrometheus() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authbase_registrations_total",
			Help: "Registration attempts by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authbase_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		tokenVerification: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authbase_token_verifications_total",
			Help: "Bearer token verifications by outcome.",
		}, []string{"outcome"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authbase_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authbase_http_request_duration_seconds",
			Help:    "HTTP request latency by method, path and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		auditPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authbase_audit_events_published_total",
			Help: "Audit events published to the stream by outcome.",
		}, []string{"outcome"}),
		auditProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authbase_audit_events_processed_total",
			Help: "Audit events processed by the worker by outcome.",
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(
		r.registrations,
		r.logins,
		r.tokenVerification,
		r.rateLimited,
		r.requestDuration,
		r.auditPublished,
		r.auditProcessed,
	)

	return r
}

// Handler returns an HTTP handler exposing the registry in Prometheus
// text format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// IncRegistration records a registration attempt.
func (r *PrometheusRecorder) IncRegistration(outcome string) {
	r.registrations.WithLabelValues(outcome).Inc()
}

// IncLogin records a login attempt.
func (r *PrometheusRecorder) IncLogin(outcome string) {
	r.logins.WithLabelValues(outcome).Inc()
}

// IncTokenVerification records a bearer token verification.
func (r *PrometheusRecorder) IncTokenVerification(outcome string) {
	r.tokenVerification.WithLabelValues(outcome).Inc()
}

// IncRateLimited records a rate-limited request.
func (r *PrometheusRecorder) IncRateLimited() {
	r.rateLimited.Inc()
}

// ObserveRequestDuration records HTTP request latency.
func (r *PrometheusRecorder) ObserveRequestDuration(method, path string, status int, duration time.Duration) {
	r.requestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// IncAuditEventPublished records an audit event publish attempt.
func (r *PrometheusRecorder) IncAuditEventPublished(outcome string) {
	r.auditPublished.WithLabelValues(outcome).Inc()
}

// IncAuditEventProcessed records an audit event processed by the worker.
func (r *PrometheusRecorder) IncAuditEventProcessed(outcome string) {
	r.auditProcessed.WithLabelValues(outcome).Inc()
}
