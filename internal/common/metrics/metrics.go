package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lineage_match_requests_total",
			Help: "Ancestor chain match requests by suggested action",
		},
		[]string{"suggested_action"},
	)

	MatchCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lineage_match_candidates",
			Help:    "Number of candidate fathers returned per match request",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)

	MatchSkippedCandidates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lineage_match_skipped_candidates_total",
			Help: "Candidate fathers dropped because their lineage could not be resolved",
		},
	)

	MemberSnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lineage_member_snapshot_size",
			Help: "Members in the most recently loaded snapshot",
		},
	)

	MemberSnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lineage_member_snapshot_load_seconds",
			Help:    "Time spent loading the member snapshot from Postgres",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// JobTimer tracks one job from start to completion or failure.
type JobTimer struct {
	taskType string
	start    time.Time
}

func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

func (t *JobTimer) Completed() {
	t.finish()
	WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
}

func (t *JobTimer) Failed(errorCode string) {
	t.finish()
	WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
}

func (t *JobTimer) finish() {
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(time.Since(t.start).Seconds())
}

// ObserveMatch records the shape of one match result.
func ObserveMatch(suggestedAction string, candidates, skipped int) {
	MatchRequests.WithLabelValues(suggestedAction).Inc()
	MatchCandidates.Observe(float64(candidates))
	MatchSkippedCandidates.Add(float64(skipped))
}

func ObserveSnapshot(size int, took time.Duration) {
	MemberSnapshotSize.Set(float64(size))
	MemberSnapshotLoadDuration.Observe(took.Seconds())
}
