package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics holds Prometheus metrics for the analysis pipeline.
type PipelineMetrics struct {
	StageDuration *prometheus.HistogramVec
	Analyses      *prometheus.CounterVec
	Failures      *prometheus.CounterVec
	Assignments   prometheus.Counter
}

// NewPipelineMetrics creates the pipeline metrics and registers them with reg.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	stageDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "horizon_pipeline_stage_duration_seconds",
		Help:    "Duration of each analysis pipeline stage",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	}, []string{"stage"})

	analyses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "horizon_analyses_total",
		Help: "Completed analyses by warning status",
	}, []string{"warning_status"})

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "horizon_analysis_failures_total",
		Help: "Aborted analyses by error code",
	}, []string{"code"})

	assignments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "horizon_senior_assignments_total",
		Help: "Senior resources assigned by the allocation policy",
	})

	reg.MustRegister(stageDuration, analyses, failures, assignments)

	return &PipelineMetrics{
		StageDuration: stageDuration,
		Analyses:      analyses,
		Failures:      failures,
		Assignments:   assignments,
	}
}

func (m *PipelineMetrics) observeStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

func (m *PipelineMetrics) observeAnalysis(status string) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(status).Inc()
}

func (m *PipelineMetrics) observeFailure(code string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(code).Inc()
}

func (m *PipelineMetrics) observeAssignment() {
	if m == nil {
		return
	}
	m.Assignments.Inc()
}
