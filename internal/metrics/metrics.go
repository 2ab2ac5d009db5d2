package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all campus events metrics
const namespace = "campus_events"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// AppInfo is a gauge that exposes application version information as labels
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// EventsTotal tracks the number of events held by the event store.
var EventsTotal = promauto.With(Registry).NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events",
		Help:      "Number of events in the event store",
	},
)

// RegistrationOutcomes counts register/cancel attempts by result.
// outcome is "ok" or a failure kind such as "capacity_exceeded".
var RegistrationOutcomes = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_operations_total",
		Help:      "Total number of registration and cancellation attempts by outcome",
	},
	[]string{"operation", "outcome"}, // operation: register|cancel
)

// FeedbackOutcomes counts feedback submissions by result.
var FeedbackOutcomes = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_submissions_total",
		Help:      "Total number of feedback submissions by outcome",
	},
	[]string{"outcome"},
)

// EventOperations counts event creation and status transitions by result.
var EventOperations = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_operations_total",
		Help:      "Total number of event create/advance attempts by outcome",
	},
	[]string{"operation", "outcome"}, // operation: create|advance
)

// SnapshotConflicts counts optimistic compare-and-replace attempts that lost
// a race and had to retry.
var SnapshotConflicts = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_conflicts_total",
		Help:      "Total number of event snapshot compare-and-replace retries",
	},
)

// Init registers runtime collectors and sets version information
func Init(version, commit, buildDate string) {
	// Init may run more than once in tests; duplicate registration is harmless.
	_ = Registry.Register(collectors.NewGoCollector())
	_ = Registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}
