package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Schedule generation reasons.
const (
	ReasonFirstWeek = "first_week"
	ReasonRollover  = "rollover"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterSchedulesGenerated  *prometheus.CounterVec
	CounterInsufficientCatalog prometheus.Counter
	CounterCommitConflicts     prometheus.Counter
	CounterExports             prometheus.Counter

	// histograms
	HistRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("fitness", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitness", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "route", "status"}),
		CounterSchedulesGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "schedules_generated",
			Help:      "Weekly schedules computed, by reason",
		}, []string{"reason"}),
		CounterInsufficientCatalog: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "insufficient_catalog",
			Help:      "Schedules computed from a catalog that could not cover the weekly quota",
		}),
		CounterCommitConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "week_commit_conflicts",
			Help:      "Week commits rejected because another commit won",
		}),
		CounterExports: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "schedule_exports",
			Help:      "Schedules exported to object storage",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
