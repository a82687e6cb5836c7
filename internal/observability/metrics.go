package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the service counters on a dedicated registry.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	Mutations      *prometheus.CounterVec
	FanoutFailures prometheus.Counter
	AuthDenials    *prometheus.CounterVec
}

// NewMetrics registers and returns the service counters.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_ticket_mutations_total",
			Help: "Ticket pipeline mutations by action and outcome.",
		}, []string{"action", "outcome"}),
		FanoutFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "helpdesk_notification_fanout_failures_total",
			Help: "Notification fan-out failures (best-effort, never fatal).",
		}),
		AuthDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helpdesk_auth_denials_total",
			Help: "Authorization denials by error code.",
		}, []string{"code"}),
	}
}

// RecordMutation counts one pipeline invocation.
func (m *Metrics) RecordMutation(action, outcome string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(action, outcome).Inc()
}

// RecordFanoutFailure counts a swallowed fan-out error.
func (m *Metrics) RecordFanoutFailure() {
	if m == nil {
		return
	}
	m.FanoutFailures.Inc()
}
