// Package metrics exposes planner counters in Prometheus format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	candidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quadplan_candidates_total",
			Help: "Total number of quadrature instants generated inside the window.",
		},
		[]string{"phase"},
	)

	observableTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quadplan_observable_total",
			Help: "Total number of quadrature instants that passed the darkness filter.",
		},
		[]string{"phase"},
	)

	droppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quadplan_candidates_dropped_total",
			Help: "Total number of candidates dropped because the solar position was unavailable.",
		},
	)

	targetsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quadplan_targets",
			Help: "Number of targets in the last planning run.",
		},
	)

	targetDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quadplan_target_duration_seconds",
			Help:    "Time spent generating and filtering one target.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(candidatesTotal)
	prometheus.MustRegister(observableTotal)
	prometheus.MustRegister(droppedTotal)
	prometheus.MustRegister(targetsGauge)
	prometheus.MustRegister(targetDurationSeconds)
}

// AddCandidates counts n generated candidates of the given phase.
func AddCandidates(phase string, n int) {
	candidatesTotal.WithLabelValues(phase).Add(float64(n))
}

// IncObservable counts one accepted candidate.
func IncObservable(phase string) {
	observableTotal.WithLabelValues(phase).Inc()
}

// IncDropped counts one candidate dropped for lack of a solar position.
func IncDropped() {
	droppedTotal.Inc()
}

// SetTargets records the number of targets being planned.
func SetTargets(n int) {
	targetsGauge.Set(float64(n))
}

// ObserveTargetDuration records how long one target took.
func ObserveTargetDuration(d time.Duration) {
	targetDurationSeconds.Observe(d.Seconds())
}

// WriteTextfile writes all registered metrics to path in the Prometheus text
// format, for pickup by a node-exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
