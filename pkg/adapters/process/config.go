package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProcessConfig binds an effect name to an external command.
type ProcessConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Timeout     string            `yaml:"timeout" json:"timeout"`
	Description string            `yaml:"description" json:"description"`
}

// ConfigFile represents the structure of effects.yaml
type ConfigFile struct {
	Effects []ProcessConfig `yaml:"effects" json:"effects"`
}

// LoadEffects reads a configuration file (YAML or JSON) and returns a map of effect names to configs.
func LoadEffects(path string) (map[string]ProcessConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effects config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	effects := make(map[string]ProcessConfig)
	for i, e := range cfg.Effects {
		if e.Name == "" || e.Command == "" {
			return nil, fmt.Errorf("effects[%d]: name and command are required", i)
		}
		if _, dup := effects[e.Name]; dup {
			return nil, fmt.Errorf("effects[%d]: duplicate effect %q", i, e.Name)
		}
		if e.Timeout != "" {
			if _, err := time.ParseDuration(e.Timeout); err != nil {
				return nil, fmt.Errorf("effects[%d]: invalid timeout: %w", i, err)
			}
		}
		effects[e.Name] = e
	}
	return effects, nil
}
