// Package metrics instruments the hazard pipeline's stages with
// Prometheus counters and histograms. Grounded on the teacher's
// pkg/monitoring/prometheus/client.go: the teacher imports
// prometheus/client_golang for its query-side v1 API against a running
// Prometheus server; the core calculation engine has no server to query,
// so the same dependency is repointed at its instrumentation side
// instead.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles the counters and histograms one hazard calculation run
// emits. A nil *Registry is safe to use — every method becomes a no-op —
// so callers that don't want metrics can skip construction entirely.
type Registry struct {
	stageDuration   *prometheus.HistogramVec
	tasksTotal      *prometheus.CounterVec
	tasksFailed     *prometheus.CounterVec
	ruptureCount    prometheus.Counter
}

// NewRegistry creates and registers the hazard pipeline's metrics against
// reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	m := &Registry{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hazard",
			Name:      "stage_duration_seconds",
			Help:      "Duration of a pipeline stage (rupture_to_input, input_to_gm, gm_to_curve, consolidate, deagg).",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		tasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard",
			Name:      "tasks_total",
			Help:      "Source-set and system-partition tasks submitted to the pipeline executor.",
		}, []string{"stage"}),
		tasksFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard",
			Name:      "tasks_failed_total",
			Help:      "Pipeline tasks that returned an error.",
		}, []string{"stage"}),
		ruptureCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hazard",
			Name:      "ruptures_processed_total",
			Help:      "Ruptures folded into a HazardInput across every source-set.",
		}),
	}
	reg.MustRegister(m.stageDuration, m.tasksTotal, m.tasksFailed, m.ruptureCount)
	return m
}

// ObserveStage records how long one pipeline stage took for one task.
func (m *Registry) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// TaskStarted increments the submitted-task counter for stage.
func (m *Registry) TaskStarted(stage string) {
	if m == nil {
		return
	}
	m.tasksTotal.WithLabelValues(stage).Inc()
}

// TaskFailed increments the failed-task counter for stage.
func (m *Registry) TaskFailed(stage string) {
	if m == nil {
		return
	}
	m.tasksFailed.WithLabelValues(stage).Inc()
}

// RupturesProcessed adds n to the processed-rupture counter.
func (m *Registry) RupturesProcessed(n int) {
	if m == nil {
		return
	}
	m.ruptureCount.Add(float64(n))
}
