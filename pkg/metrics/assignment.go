package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess    = "success"
	OutcomeOverridden = "overridden"
	OutcomeConflict   = "conflict"
	OutcomeError      = "error"
)

// AssignmentMetrics records inventory assignment and auto-assignment activity.
type AssignmentMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	retries    *prometheus.CounterVec
	matched    *prometheus.CounterVec
	unmatched  *prometheus.CounterVec
}

// NewAssignmentMetrics registers the assignment metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewAssignmentMetrics(reg prometheus.Registerer) *AssignmentMetrics {
	if reg == nil {
		return &AssignmentMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_operations_total",
		Help: "Inventory assignment operations by outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assignment_duration_seconds",
		Help:    "Duration of inventory assignment operations in seconds, retries included.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_transaction_retries_total",
		Help: "Assignment transactions retried after a serialization conflict.",
	}, []string{"operation"})
	matched := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autoassign_pairs_total",
		Help: "Auto-assignment pairs processed at purchase order submission.",
	}, []string{"outcome"})
	unmatched := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autoassign_unmatched_total",
		Help: "Units or fulfilments left without a partner after auto-assignment.",
	}, []string{"side"})
	reg.MustRegister(operations, duration, retries, matched, unmatched)
	return &AssignmentMetrics{
		operations: operations,
		duration:   duration,
		retries:    retries,
		matched:    matched,
		unmatched:  unmatched,
	}
}

// Observe records the outcome and duration of one operation.
func (m *AssignmentMetrics) Observe(operation, outcome string, elapsed time.Duration) {
	if m == nil || m.operations == nil {
		return
	}
	op := normalizeLabel(operation)
	m.operations.WithLabelValues(op, normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// IncRetry counts a transaction retry for the operation.
func (m *AssignmentMetrics) IncRetry(operation string) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.WithLabelValues(normalizeLabel(operation)).Inc()
}

// ObserveMatch records the result of one auto-assignment run.
func (m *AssignmentMetrics) ObserveMatch(assigned, failed, spareInventory, waitingFulfilments int) {
	if m == nil || m.matched == nil {
		return
	}
	m.matched.WithLabelValues(OutcomeSuccess).Add(float64(assigned))
	m.matched.WithLabelValues(OutcomeError).Add(float64(failed))
	m.unmatched.WithLabelValues("inventory").Add(float64(spareInventory))
	m.unmatched.WithLabelValues("fulfilment").Add(float64(waitingFulfilments))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
