// Package observability exposes service-level Prometheus instruments.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	timesheetPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "metropolitan",
		Subsystem: "tracking",
		Name:      "last_timesheet_saved_timestamp_seconds",
		Help:      "Unix timestamp of the most recent timesheet write.",
	})

	statusEventCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "metropolitan",
		Subsystem: "tracking",
		Name:      "status_events_total",
		Help:      "Number of status transition events consumed by the engine, labeled by new status.",
	}, []string{"status"})

	sessionEndedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "metropolitan",
		Subsystem: "tracking",
		Name:      "sessions_ended_total",
		Help:      "Number of working days closed via the end-day operation.",
	})
)

func init() {
	prometheus.MustRegister(timesheetPersistGauge, statusEventCounter, sessionEndedCounter)
}

// RecordTimesheetSaved updates the persistence watermark gauge.
func RecordTimesheetSaved(ts time.Time) {
	if ts.IsZero() {
		return
	}
	timesheetPersistGauge.Set(float64(ts.Unix()))
}

// RecordStatusEvent counts a consumed status transition.
func RecordStatusEvent(status string) {
	statusEventCounter.WithLabelValues(status).Inc()
}

// RecordSessionEnded counts a closed working day.
func RecordSessionEnded() {
	sessionEndedCounter.Inc()
}
