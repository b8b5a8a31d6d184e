package matchancestorchain

import "lineage-workers/internal/common/validation"

var memberSchema = validation.Property{
	Type:     "object",
	Required: []string{"id", "firstName", "generation"},
	Properties: map[string]validation.Property{
		"id":         {Type: "string", MinLength: validation.Int(1)},
		"firstName":  {Type: "string"},
		"fullNameEn": {Type: []string{"string", "null"}},
		"gender":     {Type: []string{"string", "null"}},
		"fatherId":   {Type: []string{"string", "null"}},
		"generation": {Type: "integer", Minimum: validation.Float(1)},
		"branch":     {Type: []string{"string", "null"}},
		"status":     {Type: []string{"string", "null"}},
	},
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"nameInput"},
		Properties: map[string]validation.Property{
			"nameInput": {
				Type:        "object",
				Description: "Names entered for the member being placed",
				Properties: map[string]validation.Property{
					"firstName":            {Type: "string", MaxLength: validation.Int(100)},
					"fatherName":           {Type: "string", MaxLength: validation.Int(100)},
					"grandfatherName":      {Type: []string{"string", "null"}, MaxLength: validation.Int(100)},
					"greatGrandfatherName": {Type: []string{"string", "null"}, MaxLength: validation.Int(100)},
					"gender":               {Type: []string{"string", "null"}},
					"firstNameEn":          {Type: []string{"string", "null"}, MaxLength: validation.Int(100)},
				},
			},
			"members": {
				Type:        []string{"array", "null"},
				Description: "Optional member population; loaded from the database when absent",
				Items:       &memberSchema,
			},
			"config": {
				Type:        []string{"object", "null"},
				Description: "Per-request matching overrides",
				Properties: map[string]validation.Property{
					"fatherWeight":           {Type: "number"},
					"grandfatherWeight":      {Type: "number"},
					"greatGrandfatherWeight": {Type: "number"},
					"minimumTotalScore":      {Type: "number"},
					"minimumFatherScore":     {Type: "number"},
					"includeLowConfidence":   {Type: "boolean"},
				},
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"allMatches", "hasMatches", "matchCount", "suggestedAction", "message", "messageAr"},
		Properties: map[string]validation.Property{
			"requestId":            {Type: "string"},
			"exactMatches":         {Type: "array"},
			"highMatches":          {Type: "array"},
			"mediumMatches":        {Type: "array"},
			"lowMatches":           {Type: "array"},
			"allMatches":           {Type: "array"},
			"hasMatches":           {Type: "boolean"},
			"matchCount":           {Type: "integer", Minimum: validation.Float(0)},
			"bestMatch":            {Type: []string{"object", "null"}},
			"suggestedAction":      {Type: "string", Enum: []string{"confirm", "select", "manual", "no_match"}},
			"requiresVerification": {Type: "boolean"},
			"message":              {Type: "string"},
			"messageAr":            {Type: "string"},
		},
	}
}
