package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Roster related metrics
	RosterOperations *prometheus.CounterVec
	RosterSize       prometheus.Gauge

	// Decisioning agent metrics
	AgentRequests *prometheus.CounterVec
	AgentLatency  *prometheus.HistogramVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RosterOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_operations_total",
			Help:      "Total number of roster mutations and queries",
		}, []string{"operation", "status"}),
		RosterSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roster_patients",
			Help:      "Current number of patients on the roster",
		}),
		AgentRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_requests_total",
			Help:      "Total number of eligibility/pre-auth agent calls",
		}, []string{"operation", "status"}),
		AgentLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_request_duration_seconds",
			Help:      "Duration of eligibility/pre-auth agent calls",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		RedisOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redis_operations_total",
			Help:      "Total number of Redis operations",
		}, []string{"operation", "status"}),
	}
}

// The record helpers are nil-safe so code paths under test can run
// without a registry.

func (m *Metrics) RecordRosterOp(operation, status string) {
	if m == nil || m.RosterOperations == nil {
		return
	}
	m.RosterOperations.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) SetRosterSize(n int) {
	if m == nil || m.RosterSize == nil {
		return
	}
	m.RosterSize.Set(float64(n))
}

func (m *Metrics) RecordAgentCall(operation, status string, elapsed time.Duration) {
	if m == nil || m.AgentRequests == nil {
		return
	}
	m.AgentRequests.WithLabelValues(operation, status).Inc()
	m.AgentLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordRedisOp(operation, status string) {
	if m == nil || m.RedisOperations == nil {
		return
	}
	m.RedisOperations.WithLabelValues(operation, status).Inc()
}
