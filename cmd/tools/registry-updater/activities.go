package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"lineage-workers/internal/common/config"
	"lineage-workers/internal/common/errors"
	"lineage-workers/internal/common/validation"
	"lineage-workers/pkg/registry"

	bo "lineage-workers/internal/workers/family/branch-overview"
	gfn "lineage-workers/internal/workers/family/generate-full-name"
	mac "lineage-workers/internal/workers/family/match-ancestor-chain"
)

type activityDef struct {
	taskType    string
	displayName string
	description string
	input       validation.JSONSchema
	output      validation.JSONSchema
	errorCodes  []errors.ErrorCode
	tags        []string
}

var snapshotErrors = []errors.ErrorCode{
	errors.ErrCodeInvalidJobVariables,
	errors.ErrCodeMemberSnapshotFailed,
	errors.ErrCodeQueryTimeout,
}

func familyDefs() []activityDef {
	return []activityDef{
		{
			taskType:    mac.TaskType,
			displayName: "Match Ancestor Chain",
			description: "Ranks candidate fathers for a new member from the entered father, grandfather and great-grandfather names",
			input:       mac.GetInputSchema(),
			output:      mac.GetOutputSchema(),
			errorCodes:  append([]errors.ErrorCode{errors.ErrCodeMissingRequiredField, errors.ErrCodeInvalidConfiguration}, snapshotErrors...),
			tags:        []string{"matching", "names"},
		},
		{
			taskType:    gfn.TaskType,
			displayName: "Generate Full Name",
			description: "Builds the Arabic and Latin patronymic full name for a child of a chosen father",
			input:       gfn.GetInputSchema(),
			output:      gfn.GetOutputSchema(),
			errorCodes: append([]errors.ErrorCode{
				errors.ErrCodeMissingRequiredField,
				errors.ErrCodeMemberNotFound,
				errors.ErrCodeCyclicLineage,
			}, snapshotErrors...),
			tags: []string{"names"},
		},
		{
			taskType:    bo.TaskType,
			displayName: "Branch Overview",
			description: "Summarizes generation-2 branches and generation-3 sub-branches with colors and member counts",
			input:       bo.GetInputSchema(),
			output:      bo.GetOutputSchema(),
			errorCodes:  snapshotErrors,
			tags:        []string{"branches"},
		},
	}
}

// buildActivities renders the family workers as registry activities, taking
// timeouts and retries from cfg.
func buildActivities(cfg *config.Config, version string) ([]registry.Activity, error) {
	defs := familyDefs()
	out := make([]registry.Activity, 0, len(defs))
	for _, s := range defs {
		in, err := registry.SchemaMap(s.input)
		if err != nil {
			return nil, fmt.Errorf("%s input schema: %w", s.taskType, err)
		}
		outSchema, err := registry.SchemaMap(s.output)
		if err != nil {
			return nil, fmt.Errorf("%s output schema: %w", s.taskType, err)
		}

		codes := make([]string, len(s.errorCodes))
		for i, c := range s.errorCodes {
			codes[i] = errors.BPMNErrorMapping[c]
		}

		wc := config.GetWorkerConfig(cfg, s.taskType)
		status := "completed"
		if !wc.Enabled {
			status = "disabled"
		}

		out = append(out, registry.Activity{
			ID:                   s.taskType,
			DisplayName:          s.displayName,
			Description:          s.description,
			Category:             "family",
			Version:              version,
			TaskType:             s.taskType,
			ImplementationStatus: status,
			InputSchema:          in,
			OutputSchema:         outSchema,
			ErrorCodes:           codes,
			Timeout:              config.GetDuration(wc.Timeout).String(),
			Retries:              wc.MaxRetries,
			Tags:                 s.tags,
		})
	}
	return out, nil
}

func generate(cfg *config.Config, path, version string) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	switch {
	case stderrors.Is(err, os.ErrNotExist):
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	case err != nil:
		return nil, err
	}

	activities, err := buildActivities(cfg, version)
	if err != nil {
		return nil, err
	}
	for _, a := range activities {
		reg.Upsert(a)
	}
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, reg.Save(path)
}
