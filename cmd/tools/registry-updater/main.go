// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"estate-client/pkg/registry"
)

const defaultPath = "configs/endpoints.json"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	exportPath := exportCmd.String("path", defaultPath, "Where to write the endpoint table")
	version := exportCmd.String("version", "1", "Version recorded in the file")

	updatePath := updateCmd.String("path", defaultPath, "Endpoint table to edit")
	name := updateCmd.String("name", "", "Endpoint name (e.g., listing.get)")
	field := updateCmd.String("field", "", "Field to update (method, path, group, access, multipart, demoBlocked, provides, invalidates)")
	value := updateCmd.String("value", "", "New value; tag lists are comma separated")

	validatePath := validateCmd.String("path", defaultPath, "Endpoint table to validate")
	listPath := listCmd.String("path", "", "Endpoint table to list (default: built-in)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		table := registry.Default().Table()
		table.Version = *version
		if err := saveTable(table, *exportPath); err != nil {
			fmt.Printf("Error exporting registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d endpoints to %s\n", len(table.Endpoints), *exportPath)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *name == "" || *field == "" {
			fmt.Println("Error: name and field are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateEndpoint(*updatePath, *name, *field, *value); err != nil {
			fmt.Printf("Error updating endpoint: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated endpoint %s, field %s to %q\n", *name, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := validateTable(*validatePath)
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d endpoints.\n", len(reg.Names()))

	case "list":
		listCmd.Parse(os.Args[2:])
		reg := registry.Default()
		if *listPath != "" {
			var err error
			if reg, err = registry.LoadRegistry(*listPath); err != nil {
				fmt.Printf("Error loading registry: %v\n", err)
				os.Exit(1)
			}
		}
		printTable(reg)

	case "help":
		fallthrough
	default:
		help()
	}
}

func loadTable(path string) (registry.EndpointRegistry, error) {
	var table registry.EndpointRegistry
	data, err := os.ReadFile(path)
	if err != nil {
		return table, fmt.Errorf("failed to load registry: %w", err)
	}
	if err := json.Unmarshal(data, &table); err != nil {
		return table, fmt.Errorf("failed to parse registry: %w", err)
	}
	return table, nil
}

func updateEndpoint(path, name, field, value string) error {
	table, err := loadTable(path)
	if err != nil {
		return err
	}

	found := false
	for i := range table.Endpoints {
		e := &table.Endpoints[i]
		if e.Name != name {
			continue
		}
		found = true
		switch field {
		case "method":
			e.Method = strings.ToUpper(value)
		case "path":
			e.Path = value
		case "group":
			e.Group = value
		case "access":
			e.Access = registry.Access(value)
		case "multipart", "demoBlocked":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid %s value: %w", field, err)
			}
			if field == "multipart" {
				e.Multipart = b
			} else {
				e.DemoBlocked = b
			}
		case "provides":
			e.Provides = parseTags(value)
		case "invalidates":
			e.Invalidates = parseTags(value)
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		break
	}

	if !found {
		return fmt.Errorf("endpoint %s not found", name)
	}
	// refuse to write a table the client would reject
	if _, err := registry.New(table); err != nil {
		return err
	}
	return saveTable(table, path)
}

func validateTable(path string) (*registry.Registry, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	// every endpoint the client calls must be present
	for _, name := range registry.Default().Names() {
		if _, ok := reg.Lookup(name); !ok {
			return nil, fmt.Errorf("missing endpoint: %s", name)
		}
	}
	for _, name := range reg.Names() {
		e, _ := reg.Lookup(name)
		switch e.Access {
		case registry.AccessPublic, registry.AccessUser, registry.AccessAdmin:
		default:
			return nil, fmt.Errorf("endpoint %s: unknown access %q", name, e.Access)
		}
		for _, tag := range e.Invalidates {
			if len(reg.ProvidersOf(tag)) == 0 {
				return nil, fmt.Errorf("endpoint %s: invalidates %s but no query provides it", name, tag)
			}
		}
	}
	return reg, nil
}

func parseTags(value string) []registry.Tag {
	var out []registry.Tag
	for _, t := range strings.Split(value, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, registry.Tag(t))
		}
	}
	return out
}

func printTable(reg *registry.Registry) {
	for _, e := range reg.Table().Endpoints {
		fmt.Printf("%-28s %-6s %-40s %-6s provides=%v invalidates=%v\n", e.Name, e.Method, e.Path, e.Access, e.Provides, e.Invalidates)
	}
}

// saveTable handles saving the endpoint table to file
func saveTable(table registry.EndpointRegistry, path string) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  export   Write the built-in endpoint table to a JSON file
  update   Change one field of an endpoint in a JSON table
  validate Check a JSON table can replace the built-in one
  list     Print an endpoint table
  help     Show this help message

Examples:
  registry-updater export -path configs/endpoints.json
  registry-updater update -path configs/endpoints.json -name listing.get -field path -value /v2/listings/{id}
  registry-updater validate -path configs/endpoints.json

Point the client at the edited table with api.registry_path.
`)
}
