package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/fsmkit/internal/demo/vending"
	"github.com/aretw0/fsmkit/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Writes the vending table as YAML and JSON definition files, so that
// `fsmkit serve --table` and `fsmkit graph` can be tried on a file.
func main() {
	targetDir := "examples/tables"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	fmt.Printf("Generating tables in: %s\n", targetDir)
	if _, err := writeTables(targetDir, vending.Definition()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Println("Done. Verify contents in", targetDir)
}

// writeTables writes def as <name>.yaml and <name>.json in dir and checks that
// both files load back into a table. It returns the written paths.
func writeTables(dir string, def *schema.Definition) ([]string, error) {
	if err := schema.Validate(def); err != nil {
		return nil, err
	}
	// Ensure dir exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	yamlData, err := yaml.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	jsonData, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}

	files := []struct {
		ext  string
		data []byte
	}{
		{".yaml", yamlData},
		{".json", append(jsonData, '\n')},
	}

	var paths []string
	for _, f := range files {
		path := filepath.Join(dir, def.Name+f.ext)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return nil, err
		}
		// Round trip: what we wrote must load back to a table.
		loaded, err := schema.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s does not load back: %w", path, err)
		}
		if _, err := schema.Inspect(loaded); err != nil {
			return nil, fmt.Errorf("%s does not build: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
