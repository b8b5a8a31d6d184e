package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestJobTimer(t *testing.T) {
	const taskType = "metrics-test-task"

	StartJob(taskType).Completed()
	StartJob(taskType).Failed("MEMBER_SNAPSHOT_FAILED")

	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues(taskType)))
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues(taskType, "MEMBER_SNAPSHOT_FAILED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(WorkerJobsActive.WithLabelValues(taskType)))
}

func TestObserveMatch(t *testing.T) {
	before := testutil.ToFloat64(MatchRequests.WithLabelValues("select"))
	skippedBefore := testutil.ToFloat64(MatchSkippedCandidates)

	ObserveMatch("select", 2, 1)

	assert.Equal(t, before+1, testutil.ToFloat64(MatchRequests.WithLabelValues("select")))
	assert.Equal(t, skippedBefore+1, testutil.ToFloat64(MatchSkippedCandidates))
}

func TestObserveSnapshot(t *testing.T) {
	ObserveSnapshot(42, 10*time.Millisecond)
	assert.Equal(t, 42.0, testutil.ToFloat64(MemberSnapshotSize))
}
