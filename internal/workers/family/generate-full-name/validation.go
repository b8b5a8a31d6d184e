package generatefullname

import "lineage-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"firstName": {
				Type:        "string",
				Description: "First name of the member being named",
				MaxLength:   validation.Int(100),
			},
			"firstNameEn": {
				Type:        []string{"string", "null"},
				Description: "Latin-script first name for the transliterated form",
				MaxLength:   validation.Int(100),
			},
			"gender": {
				Type:        []string{"string", "null"},
				Description: "Selects bin or bint after the first name",
			},
			"fatherId": {
				Type:        "string",
				Description: "Identifier of the chosen father",
			},
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
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"fullNameAr", "fullNameEn", "fatherId", "lineage", "generation"},
		Properties: map[string]validation.Property{
			"fullNameAr": {Type: "string", MinLength: validation.Int(1)},
			"fullNameEn": {Type: "string", MinLength: validation.Int(1)},
			"fatherId":   {Type: "string"},
			"lineage":    {Type: "array", Items: &validation.Property{Type: "string"}},
			"generation": {Type: "integer", Minimum: validation.Float(2)},
			"branch":     {Type: "string"},
		},
	}
}
