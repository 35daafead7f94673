package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the visit lifecycle module.
// Counts transitions by outcome and times the register path.
type Metrics struct {
	Registered       prometheus.Counter
	Approved         prometheus.Counter
	Rejected         prometheus.Counter
	CheckedOut       prometheus.Counter
	Conflicts        prometheus.Counter
	RegisterDuration prometheus.Histogram
}

// New creates a new Metrics instance with all visit module metrics registered.
func New() *Metrics {
	return &Metrics{
		Registered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_visits_registered_total",
			Help: "Total number of visits registered",
		}),
		Approved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_visits_approved_total",
			Help: "Total number of visits approved and checked in",
		}),
		Rejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_visits_rejected_total",
			Help: "Total number of visits rejected",
		}),
		CheckedOut: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_visits_checked_out_total",
			Help: "Total number of visits checked out",
		}),
		Conflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gatehouse_visit_transition_conflicts_total",
			Help: "Transitions lost to a concurrent actor on the same visit",
		}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatehouse_visit_register_duration_seconds",
			Help:    "Duration of RegisterVisit operations (reception critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementRegistered records a successful visit registration.
func (m *Metrics) IncrementRegistered() {
	if m == nil {
		return
	}
	m.Registered.Inc()
}

// IncrementApproved records a successful approval.
func (m *Metrics) IncrementApproved() {
	if m == nil {
		return
	}
	m.Approved.Inc()
}

// IncrementRejected records a successful rejection.
func (m *Metrics) IncrementRejected() {
	if m == nil {
		return
	}
	m.Rejected.Inc()
}

// IncrementCheckedOut records a successful checkout.
func (m *Metrics) IncrementCheckedOut() {
	if m == nil {
		return
	}
	m.CheckedOut.Inc()
}

// IncrementConflict records a transition lost to a concurrent actor.
func (m *Metrics) IncrementConflict() {
	if m == nil {
		return
	}
	m.Conflicts.Inc()
}

// ObserveRegister records the duration of a RegisterVisit operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	if m == nil {
		return
	}
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
