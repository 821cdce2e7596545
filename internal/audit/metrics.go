package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the audit pipeline.
type Metrics struct {
	EntriesEmitted prometheus.Counter
	EntriesDropped prometheus.Counter
	WriteFailures  prometheus.Counter
}

// NewMetrics creates and registers the audit metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		EntriesEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentflow_audit_entries_emitted_total",
			Help: "Total audit entries accepted by the publisher",
		}),
		EntriesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentflow_audit_entries_dropped_total",
			Help: "Total audit entries dropped because the buffer was full",
		}),
		WriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "talentflow_audit_write_failures_total",
			Help: "Total audit sink writes that failed",
		}),
	}
}
