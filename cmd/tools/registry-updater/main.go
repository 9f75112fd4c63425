// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"job-board/internal/workers"
	"job-board/pkg/registry"
)

const defaultPath = "configs/activity-registry.json"

func main() {
	generateCmd := flag.NewFlagSet("generate", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	generatePath := generateCmd.String("path", defaultPath, "Path to registry file")
	keepFields := generateCmd.Bool("keep", true, "Keep workflows and timeouts already recorded in the file")

	updatePath := updateCmd.String("path", defaultPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, timeout, retries, workflows)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		generateCmd.Parse(os.Args[2:])
		n, err := generate(*generatePath, *keepFields)
		if err != nil {
			fmt.Printf("Error generating registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d activities to %s\n", n, *generatePath)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updatePath, *idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Failed to load registry: %v\n", err)
			os.Exit(1)
		}
		if err := reg.Validate(); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		if missing := missingTaskTypes(reg); len(missing) > 0 {
			fmt.Printf("Registry is missing task types: %v\n", missing)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	case "help":
		fallthrough
	default:
		help()
	}
}

// generate writes the built-in catalog to path. With keep, hand-edited
// workflows and timeouts in an existing file survive.
func generate(path string, keep bool) (int, error) {
	reg := workers.Catalog().Snapshot(time.Now())

	if keep {
		existing, err := registry.LoadRegistry(path)
		if err != nil && !os.IsNotExist(err) {
			return 0, fmt.Errorf("failed to load registry: %w", err)
		}
		if existing != nil {
			for i := range reg.Activities {
				if old, ok := existing.Find(reg.Activities[i].ID); ok {
					reg.Activities[i].Workflows = old.Workflows
					reg.Activities[i].Timeout = old.Timeout
				}
			}
		}
	}

	if err := reg.Save(path); err != nil {
		return 0, err
	}
	return len(reg.Activities), nil
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activity, ok := reg.Find(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "description":
		activity.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	case "workflows":
		activity.Workflows = append(activity.Workflows, value)
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg.Save(path)
}

func missingTaskTypes(reg *registry.ActivityRegistry) []string {
	have := make(map[string]bool, len(reg.Activities))
	for _, a := range reg.Activities {
		have[a.TaskType] = true
	}

	var missing []string
	for _, a := range workers.Catalog().Snapshot(time.Now()).Activities {
		if !have[a.TaskType] {
			missing = append(missing, a.TaskType)
		}
	}
	return missing
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  generate Write the built-in task catalogue to the registry file
  update   Update an existing activity's field
  validate Validate the registry file against the catalogue
  help     Show this help message

Examples:
  registry-updater generate -path configs/activity-registry.json
  registry-updater update -id submit-application -field workflows -value apply-to-job
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
