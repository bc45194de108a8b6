package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scoring_jobs_processed_total",
		Help: "Total number of analysis jobs processed, by status",
	}, []string{"status"})

	JobProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scoring_job_processing_duration_seconds",
		Help:    "Duration of analysis pipeline stages",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"stage"})

	FramesAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scoring_frames_analyzed_total",
		Help: "Total number of sampled frames run through detection",
	})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scoring_active_workers",
		Help: "Number of currently active workers processing jobs",
	})

	RetryTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scoring_retry_total",
		Help: "Total number of retries",
	}, []string{"attempt"})

	OverallScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scoring_overall_score",
		Help:    "Distribution of final fused scores",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	})

	DegradedSessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scoring_degraded_sessions_total",
		Help: "Sessions where a modality produced no signal, by modality",
	}, []string{"modality"})
)
