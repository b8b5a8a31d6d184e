package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineage-workers/internal/common/camunda/jobtest"
	"lineage-workers/internal/common/errors"
)

func testJob() entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 7, Retries: 3}}
}

func TestCompleteJob_SendsVariables(t *testing.T) {
	gateway := jobtest.NewGateway()

	err := CompleteJob(context.Background(), gateway.Client(), testJob(), map[string]interface{}{"generation": 4})

	require.NoError(t, err)
	completed := gateway.Completed()
	require.Len(t, completed, 1)
	assert.Equal(t, int64(7), completed[0].JobKey)
	assert.JSONEq(t, `{"generation":4}`, completed[0].Variables)
}

func TestCompleteJob_RetriesUnavailableGateway(t *testing.T) {
	gateway := jobtest.NewGateway()
	gateway.CompleteErrors = []error{stderrors.New("rpc error: code = Unavailable desc = connection refused")}

	err := CompleteJob(context.Background(), gateway.Client(), testJob(), map[string]interface{}{})

	require.NoError(t, err)
	assert.Len(t, gateway.Completed(), 1)
}

func TestCompleteJob_RejectedIsNotRetried(t *testing.T) {
	gateway := jobtest.NewGateway()
	gateway.CompleteErrors = []error{stderrors.New("job not found"), nil}

	err := CompleteJob(context.Background(), gateway.Client(), testJob(), map[string]interface{}{})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeBrokerRejected, errors.Normalize(err).Code)
	assert.Empty(t, gateway.Completed())
}

func TestReportContext_OutlivesJobDeadline(t *testing.T) {
	type key struct{}
	jobCtx, cancel := context.WithTimeout(context.WithValue(context.Background(), key{}, "span"), time.Nanosecond)
	defer cancel()
	<-jobCtx.Done()

	ctx, done := ReportContext(jobCtx)
	defer done()

	assert.NoError(t, ctx.Err())
	assert.Equal(t, "span", ctx.Value(key{}))
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(ReportTimeout), deadline, time.Second)
}
