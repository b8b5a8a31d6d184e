package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON, creating the directory.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Upsert replaces the activity with the same id or appends it, keeping
// activities sorted by id.
func (r *ActivityRegistry) Upsert(a Activity) {
	replaced := false
	for i := range r.Activities {
		if r.Activities[i].ID == a.ID {
			r.Activities[i] = a
			replaced = true
			break
		}
	}
	if !replaced {
		r.Activities = append(r.Activities, a)
	}
	sort.Slice(r.Activities, func(i, j int) bool { return r.Activities[i].ID < r.Activities[j].ID })
}

func (r *ActivityRegistry) Find(id string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, a := range r.Activities {
		switch {
		case a.ID == "":
			return fmt.Errorf("activity missing required field: ID")
		case ids[a.ID]:
			return fmt.Errorf("duplicate activity ID: %s", a.ID)
		case a.DisplayName == "":
			return fmt.Errorf("activity %s missing required field: DisplayName", a.ID)
		case a.TaskType == "":
			return fmt.Errorf("activity %s missing required field: TaskType", a.ID)
		case taskTypes[a.TaskType]:
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		case a.Category == "":
			return fmt.Errorf("activity %s missing required field: Category", a.ID)
		case a.InputSchema == nil:
			return fmt.Errorf("activity %s missing input schema", a.ID)
		}
		ids[a.ID] = true
		taskTypes[a.TaskType] = true
	}
	return nil
}

// SchemaMap converts a typed schema into the generic map stored in the
// registry file.
func SchemaMap(schema interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
