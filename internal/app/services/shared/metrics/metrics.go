package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "onboarding"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// GatewayOperationsTotal counts admin gateway operations by outcome category.
	GatewayOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_operations_total",
			Help:      "Admin gateway operations by operation and result code.",
		},
		[]string{"operation", "code"},
	)

	GatewayVersionConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_version_conflicts_total",
			Help:      "Conditional profile writes lost to a concurrent writer.",
		},
	)

	DispatcherReactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatcher_reactions_total",
			Help:      "Event dispatcher reactions by event kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	DispatcherReactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatcher_reaction_duration_seconds",
			Help:      "Time spent running one dispatcher reaction.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	ClaimsSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_sync_total",
			Help:      "Capability token synchronizations by outcome.",
		},
		[]string{"outcome"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification attempts by template kind and outcome.",
		},
		[]string{"template_kind", "outcome"},
	)

	ReconcilerRepairedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_reconciler_repaired_total",
			Help:      "Profiles whose lagging capability token was republished by the reconciler.",
		},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
	OutcomeRetried = "retried"
	OutcomeDead    = "dead_lettered"
)

// Outcome maps an error to the success/failure label value.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
