// Package metrics holds Prometheus metrics for the assignment module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts policy decisions and assignment lifecycle events.
type Metrics struct {
	PermissionChecks   *prometheus.CounterVec
	PermissionDenials  *prometheus.CounterVec
	AssignmentsCreated *prometheus.CounterVec
	AssignmentsExpired prometheus.Counter
}

// New creates and registers the assignment metrics.
func New() *Metrics {
	return &Metrics{
		PermissionChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentflow_permission_checks_total",
			Help: "Total assignment permission checks by classification and role",
		}, []string{"classification", "role"}),
		PermissionDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentflow_permission_denials_total",
			Help: "Total denied assignment permission checks by classification and role",
		}, []string{"classification", "role"}),
		AssignmentsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "talentflow_assignments_created_total",
			Help: "Total assignments created by classification",
		}, []string{"classification"}),
		AssignmentsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentflow_assignments_expired_total",
			Help: "Total assignments transitioned to expired by the expiry worker",
		}),
	}
}

// IncrementCheck records a permission check outcome.
func (m *Metrics) IncrementCheck(classification, role string, allowed bool) {
	m.PermissionChecks.WithLabelValues(classification, role).Inc()
	if !allowed {
		m.PermissionDenials.WithLabelValues(classification, role).Inc()
	}
}

// IncrementCreated records a successful assignment creation.
func (m *Metrics) IncrementCreated(classification string) {
	m.AssignmentsCreated.WithLabelValues(classification).Inc()
}

// AddExpired records assignments expired by the worker.
func (m *Metrics) AddExpired(count int) {
	m.AssignmentsExpired.Add(float64(count))
}
