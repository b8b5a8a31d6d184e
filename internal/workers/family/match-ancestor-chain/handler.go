package matchancestorchain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lineage-workers/internal/common/camunda"
	"lineage-workers/internal/common/database"
	"lineage-workers/internal/common/errors"
	"lineage-workers/internal/common/logger"
	"lineage-workers/internal/common/metrics"
	"lineage-workers/internal/common/observability"
	"lineage-workers/internal/common/validation"
	"lineage-workers/internal/lineage/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "family-match-ancestor-chain"

type Handler struct {
	config       *Config
	service      *matching.Service
	members      database.MemberSource
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

type HandlerOptions struct {
	Config        *Config
	Service       *matching.Service
	Members       database.MemberSource
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%s: config is required", TaskType)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Service == nil {
		return nil, fmt.Errorf("%s: matching service is required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       opts.Config,
		service:      opts.Service,
		members:      opts.Members,
		errorHandler: errors.NewErrorHandler(log, opts.Config.MaxRetries),
		obs:          opts.Observability,
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx, span := h.obs.StartSpan(ctx, TaskType,
		attribute.Int64("jobKey", job.Key),
		attribute.Int64("processInstanceKey", job.ProcessInstanceKey))

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	output, err := h.process(ctx, job)
	if err != nil {
		stdErr := errors.Normalize(err)
		timer.Failed(string(stdErr.Code))
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
		h.reportError(ctx, client, job, stdErr)
		observability.EndSpan(span, err)
		return
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		timer.Failed(string(errors.ErrCodeInternal))
		observability.EndSpan(span, err)
		return
	}

	timer.Completed()
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
	observability.EndSpan(span, nil)
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := parseInput(job.Variables)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

func parseInput(variables string) (*Input, error) {
	result, err := validation.ValidateJSON(variables, GetInputSchema())
	if err != nil {
		return nil, errors.NewInvalidJobVariablesError(err.Error())
	}
	if err := result.AsError(); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidJobVariablesError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// Execute matches input against the supplied population or a fresh snapshot.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.NameInput.Validate(); err != nil {
		return nil, err
	}

	members, err := database.ResolveMembers(ctx, input.Members, h.members)
	if err != nil {
		return nil, err
	}

	result, err := h.service.Match(ctx, input.NameInput, members, input.Config)
	if err != nil {
		return nil, err
	}

	metrics.ObserveMatch(string(result.SuggestedAction), result.MatchCount, len(result.Skipped))
	return &Output{MatchResult: *result}, nil
}

func (h *Handler) reportError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	ctx, cancel := camunda.ReportContext(ctx)
	defer cancel()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	ctx, cancel := camunda.ReportContext(ctx)
	defer cancel()

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return err
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":          job.Key,
		"requestId":       output.RequestID,
		"suggestedAction": output.SuggestedAction,
		"matchCount":      output.MatchCount,
	})
	return nil
}
