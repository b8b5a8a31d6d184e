// Package validation checks job variables against JSON schemas.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"lineage-workers/internal/common/errors"
)

type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *bool               `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        interface{}         `json:"type"` // string or []string
	Description string              `json:"description,omitempty"`
	Default     interface{}         `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Helpers for building schemas inline.
func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }
func Bool(v bool) *bool        { return &v }
func String(v string) *string  { return &v }

// ValidateInput validates a decoded document against schema.
func ValidateInput(input interface{}, schema JSONSchema) (*ValidationResult, error) {
	return validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(input))
}

// ValidateJSON validates raw job variables against schema.
func ValidateJSON(raw string, schema JSONSchema) (*ValidationResult, error) {
	return validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewStringLoader(raw))
}

func validate(schemaLoader, documentLoader gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldOf(desc),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	return out, nil
}

// fieldOf reports the missing property itself for "required" errors, which
// gojsonschema attributes to the parent object.
func fieldOf(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() != "required" {
		return field
	}
	prop, ok := desc.Details()["property"].(string)
	if !ok {
		return field
	}
	if field == "(root)" || field == "" {
		return prop
	}
	return field + "." + prop
}

func GetSchemaFromJSON(schemaJSON string) (JSONSchema, error) {
	var schema JSONSchema
	err := json.Unmarshal([]byte(schemaJSON), &schema)
	return schema, err
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// AsError is nil for a valid result and an INVALID_JOB_VARIABLES error
// otherwise.
func (vr *ValidationResult) AsError() error {
	if vr.Valid {
		return nil
	}
	stdErr := errors.NewInvalidJobVariablesError(strings.Join(vr.GetErrorMessages(), "; "))
	fields := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		fields = append(fields, e.Field)
	}
	return stdErr.WithMetadata("fields", fields)
}
