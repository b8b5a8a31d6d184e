package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"lineage-workers/internal/common/config"
	"lineage-workers/pkg/registry"
)

func main() {
	generateCmd := flag.NewFlagSet("generate", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	genPath := generateCmd.String("path", "configs/activity-registry.json", "Path to registry file")
	genVersion := generateCmd.String("version", "1.0.0", "Version stamped on generated activities")

	updPath := updateCmd.String("path", "configs/activity-registry.json", "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, timeout, retries)")
	value := updateCmd.String("value", "", "New value for the field")

	valPath := validateCmd.String("path", "configs/activity-registry.json", "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		_ = generateCmd.Parse(os.Args[2:])
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		reg, err := generate(cfg, *genPath, *genVersion)
		if err != nil {
			fmt.Printf("Error generating registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d activities to %s\n", len(reg.Activities), *genPath)

	case "update":
		_ = updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updPath, *idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*valPath)
		if err == nil {
			err = reg.Validate()
		}
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	default:
		help()
	}
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	a, ok := reg.Find(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "description":
		a.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.Upsert(a)
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg.Save(path)
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  generate  Write the family worker activities (schemas, error codes, timeouts) to the registry
  update    Update a field of an existing activity
  validate  Validate the registry file
  help      Show this help message

Examples:
  registry-updater generate -path configs/activity-registry.json
  registry-updater update -id family-branch-overview -field status -value verified
  registry-updater validate -path configs/activity-registry.json`)
}
