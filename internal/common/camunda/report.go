package camunda

import (
	"context"
	"fmt"
	"time"

	"lineage-workers/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ReportTimeout bounds how long a handler spends sending a job outcome to
// the broker. It is separate from the job's processing deadline.
const ReportTimeout = 10 * time.Second

var ReportRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  200 * time.Millisecond,
	MaxDelay:   2 * time.Second,
}

// ReportContext returns a context for sending a job outcome. It keeps the
// values of ctx (the job span) but not its deadline or cancellation.
func ReportContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), ReportTimeout)
}

// CompleteJob completes job with variables, retrying transient gateway
// failures.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, variables interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(variables)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("build complete command: %w", err))
	}

	return ExecuteWithRetry(ctx, ReportRetryConfig, "complete-job", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
}
