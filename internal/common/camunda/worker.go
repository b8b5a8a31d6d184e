package camunda

import (
	"context"
	"time"

	"lineage-workers/internal/common/config"
	"lineage-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every family worker handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// JobWorkerOpener is the part of zbc.Client the worker needs.
type JobWorkerOpener interface {
	NewJobWorker() worker.JobWorkerBuilderStep1
}

var _ JobWorkerOpener = zbc.Client(nil)

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker for taskType using the per-worker settings.
func NewWorker(
	client JobWorkerOpener,
	taskType string,
	cfg config.WorkerConfig,
	handler JobHandler,
	log logger.Logger,
) *CamundaWorker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(timeoutOrDefault(cfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"maxJobsActive": cfg.MaxJobsActive,
		"timeoutMs":     cfg.Timeout,
	})

	return &CamundaWorker{
		worker:   jobWorker,
		logger:   log,
		taskType: taskType,
	}
}

func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

// Stop closes the job worker and waits for in-flight jobs until ctx ends.
func (w *CamundaWorker) Stop(ctx context.Context) {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()

	done := make(chan struct{})
	go func() {
		w.worker.AwaitClose()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("worker did not drain before shutdown deadline", nil)
	}
}

func timeoutOrDefault(ms int) time.Duration {
	if ms <= 0 {
		return 30 * time.Second
	}
	return config.GetDuration(ms)
}
