// Package metrics holds the Prometheus collectors for the dashboard core.
// All recorder methods are nil-safe so services can run without metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "estate_dashboard"

// Metrics holds all Prometheus metrics for the core services.
type Metrics struct {
	LoginAttempts        *prometheus.CounterVec
	StageTransitions     *prometheus.CounterVec
	MutationRejections   *prometheus.CounterVec
	FollowUps            *prometheus.CounterVec
	AggregateCacheHits   prometheus.Counter
	AggregateCacheMisses prometheus.Counter
}

// New initializes the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}), // result: success, invalid_credentials, busy, error
		StageTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "stage_transitions_total",
			Help:      "Applied lead stage transitions.",
		}, []string{"from", "to"}),
		MutationRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "mutation_rejections_total",
			Help:      "Rejected lead and follow-up mutations by error kind.",
		}, []string{"op", "kind"}),
		FollowUps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "followups",
			Name:      "events_total",
			Help:      "Follow-up lifecycle events.",
		}, []string{"event"}), // event: scheduled, completed, reminder_enqueued, reminder_failed
		AggregateCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "aggregate_cache_hits_total",
			Help:      "Pipeline aggregate queries served from cache.",
		}),
		AggregateCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "aggregate_cache_misses_total",
			Help:      "Pipeline aggregate queries recomputed from lead state.",
		}),
	}
}

// Login records a login attempt outcome.
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

// Transition records an applied stage change.
func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.StageTransitions.WithLabelValues(from, to).Inc()
}

// Rejected records a rejected mutation.
func (m *Metrics) Rejected(op, kind string) {
	if m == nil {
		return
	}
	m.MutationRejections.WithLabelValues(op, kind).Inc()
}

// FollowUp records a follow-up lifecycle event.
func (m *Metrics) FollowUp(event string) {
	if m == nil {
		return
	}
	m.FollowUps.WithLabelValues(event).Inc()
}

// CacheHit records an aggregate cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.AggregateCacheHits.Inc()
}

// CacheMiss records an aggregate cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.AggregateCacheMisses.Inc()
}
