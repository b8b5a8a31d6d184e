package generatefullname

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"lineage-workers/internal/common/camunda"
	"lineage-workers/internal/common/database"
	"lineage-workers/internal/common/errors"
	"lineage-workers/internal/common/logger"
	"lineage-workers/internal/common/metrics"
	"lineage-workers/internal/common/observability"
	"lineage-workers/internal/common/validation"
	"lineage-workers/internal/lineage/fullname"
	"lineage-workers/internal/lineage/matching"
	"lineage-workers/internal/lineage/tree"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "family-generate-full-name"

type Handler struct {
	config       *Config
	generator    *fullname.Generator
	members      database.MemberSource
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

type HandlerOptions struct {
	Config        *Config
	Generator     *fullname.Generator
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

	gen := opts.Generator
	if gen == nil {
		gen = fullname.NewGenerator("", "")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       opts.Config,
		generator:    gen,
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
	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.Int64("jobKey", job.Key))

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

	output, err := h.process(ctx, job)
	if err == nil {
		err = h.completeJob(ctx, client, job, output)
		if err != nil {
			timer.Failed(string(errors.ErrCodeInternal))
			observability.EndSpan(span, err)
			return
		}
		timer.Completed()
		h.obs.RecordJobProcessed(ctx, TaskType, "completed")
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "completed")
		observability.EndSpan(span, nil)
		return
	}

	stdErr := errors.Normalize(err)
	timer.Failed(string(stdErr.Code))
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), "failed")
	h.reportError(ctx, client, job, stdErr)
	observability.EndSpan(span, err)
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	result, err := validation.ValidateJSON(job.Variables, GetInputSchema())
	if err != nil {
		return nil, errors.NewInvalidJobVariablesError(err.Error())
	}
	if err := result.AsError(); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInvalidJobVariablesError(fmt.Sprintf("parse input: %v", err))
	}
	return h.Execute(ctx, &input)
}

// Execute builds the full name a new child of input.FatherID would carry.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return nil, errors.NewMissingRequiredFieldError("firstName")
	}
	if strings.TrimSpace(input.FatherID) == "" {
		return nil, errors.NewMissingRequiredFieldError("fatherId")
	}

	members, err := database.ResolveMembers(ctx, input.Members, h.members)
	if err != nil {
		return nil, err
	}

	pop := tree.NewPopulation(members)
	father, ok := pop.Get(input.FatherID)
	if !ok {
		return nil, errors.NewMemberNotFoundError(input.FatherID)
	}

	gender := input.Gender
	if gender == "" {
		gender = tree.GenderMale
	}
	child := fullname.Person{FirstName: firstName, FirstNameEn: input.FirstNameEn, Gender: gender}

	placement, err := matching.Place(pop, father, child, h.generator)
	if err != nil {
		var cyc *tree.CyclicLineageError
		if stderrors.As(err, &cyc) {
			return nil, errors.NewCyclicLineageError(cyc.MemberID, cyc.RepeatedID)
		}
		return nil, err
	}

	h.logger.Debug("full name generated", map[string]interface{}{
		"fatherId":   father.ID,
		"generation": placement.Generation,
		"branch":     placement.Branch,
	})

	return &Output{
		Names:      placement.FullName,
		FatherID:   father.ID,
		Lineage:    placement.Lineage,
		Generation: placement.Generation,
		Branch:     placement.Branch,
	}, nil
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
	return nil
}
