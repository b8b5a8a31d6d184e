package branchoverview

import (
	"context"
	"encoding/json"
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
	"lineage-workers/internal/lineage/branchcolor"
	"lineage-workers/internal/lineage/tree"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "family-branch-overview"

type Handler struct {
	config       *Config
	colors       *branchcolor.Assigner
	members      database.MemberSource
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

type HandlerOptions struct {
	Config        *Config
	Palette       []string
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

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       opts.Config,
		colors:       branchcolor.New(opts.Palette),
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

	output, err := h.process(ctx, job)
	if err != nil {
		stdErr := errors.Normalize(err)
		timer.Failed(string(stdErr.Code))
		h.reportError(ctx, client, job, stdErr)
		h.record(ctx, start, "failed")
		observability.EndSpan(span, err)
		return
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		timer.Failed(string(errors.ErrCodeInternal))
		h.record(ctx, start, "failed")
		observability.EndSpan(span, err)
		return
	}

	timer.Completed()
	h.record(ctx, start, "completed")
	observability.EndSpan(span, nil)
}

func (h *Handler) record(ctx context.Context, start time.Time, status string) {
	h.obs.RecordJobProcessed(ctx, TaskType, status)
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start), status)
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

// Execute summarizes the generation-2 branches and generation-3 sub-branches.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	members, err := database.ResolveMembers(ctx, input.Members, h.members)
	if err != nil {
		return nil, err
	}

	pop := tree.NewPopulation(members)
	founders := pop.Gen2Founders()
	colors := h.colors.AssignAll(founders)

	out := &Output{
		TotalMembers: pop.Len(),
		Branches:     make([]BranchSummary, 0, len(founders)),
		SubBranches:  []BranchSummary{},
	}
	for _, m := range pop.Members() {
		if m.IsLiving() {
			out.LivingMembers++
		}
	}

	for _, stat := range pop.BranchStats(tree.BranchGeneration) {
		out.Branches = append(out.Branches, summarize(stat, colors[stat.Founder.ID], ""))
	}

	for _, stat := range pop.BranchStats(tree.SubBranchGeneration) {
		color := branchcolor.FallbackColor
		parent := ""
		if founder, ok := pop.Gen2Ancestor(stat.Founder.ID); ok {
			color = colors[founder.ID]
			parent = founder.FirstName
		}
		out.SubBranches = append(out.SubBranches, summarize(stat, color, parent))
	}

	h.logger.Info("branch overview built", map[string]interface{}{
		"totalMembers": out.TotalMembers,
		"branches":     len(out.Branches),
		"subBranches":  len(out.SubBranches),
	})
	return out, nil
}

func summarize(stat tree.BranchStat, color, parent string) BranchSummary {
	s := BranchSummary{
		FounderID:    stat.Founder.ID,
		FounderName:  stat.Founder.FirstName,
		ParentBranch: parent,
		Color:        color,
		Total:        stat.Total,
		Living:       stat.Living,
	}
	if fields := strings.Fields(stat.Founder.FullNameEn); len(fields) > 0 {
		s.FounderNameEn = fields[0]
	}
	return s
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
