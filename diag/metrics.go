package diag

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	unstubs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stubreg",
			Subsystem: "registry",
			Name:      "unstubs_total",
			Help:      "Total slot resolution attempts.",
		},
		[]string{"slot", "outcome"},
	)
	unstubDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stubreg",
			Subsystem: "registry",
			Name:      "unstub_duration_seconds",
			Help:      "Slot resolution attempt duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"slot"},
	)
)

// RegisterMetrics registers the resolution metrics with the default
// Prometheus registry. Safe to call multiple times.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(unstubs, unstubDuration)
	})
}

// RecordUnstub records one resolution attempt. outcome is "ok", "loop" or
// "error".
func RecordUnstub(slot, outcome string, duration time.Duration) {
	RegisterMetrics()
	unstubs.WithLabelValues(slot, outcome).Inc()
	unstubDuration.WithLabelValues(slot).Observe(duration.Seconds())
}
