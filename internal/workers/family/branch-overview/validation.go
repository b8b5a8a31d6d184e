package branchoverview

import "lineage-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"members": {
				Type:        []string{"array", "null"},
				Description: "Optional member population; loaded from the database when absent",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"id", "firstName", "generation"},
				},
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	branch := validation.Property{
		Type:     "object",
		Required: []string{"founderId", "founderName", "color", "total", "living"},
		Properties: map[string]validation.Property{
			"founderId":   {Type: "string"},
			"founderName": {Type: "string"},
			"color":       {Type: "string", Pattern: validation.String("^#[0-9A-Fa-f]{6}$")},
			"total":       {Type: "integer", Minimum: validation.Float(1)},
			"living":      {Type: "integer", Minimum: validation.Float(0)},
		},
	}

	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"totalMembers", "livingMembers", "branches", "subBranches"},
		Properties: map[string]validation.Property{
			"totalMembers":  {Type: "integer", Minimum: validation.Float(0)},
			"livingMembers": {Type: "integer", Minimum: validation.Float(0)},
			"branches":      {Type: "array", Items: &branch},
			"subBranches":   {Type: "array", Items: &branch},
		},
	}
}
