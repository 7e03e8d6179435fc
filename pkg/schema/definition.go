package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a definition file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Definition is the declarative form of a transition table.
type Definition struct {
	Name        string              `json:"name" yaml:"name" mapstructure:"name"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Initial     domain.StateID      `json:"initial" yaml:"initial" mapstructure:"initial"`
	Labels      map[string]string   `json:"labels,omitempty" yaml:"labels,omitempty" mapstructure:"labels"`
	Transitions []domain.Transition `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
}

// Load reads a definition file. The format is chosen from the extension;
// anything that is not ".json" is read as YAML.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table definition: %w", err)
	}

	format := FormatYAML
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = FormatJSON
	}

	def, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return def, nil
}

// Parse decodes a definition. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Definition, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse json definition: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml definition: %w", err)
		}
	}
	if raw == nil {
		return nil, fmt.Errorf("empty table definition")
	}

	var def Definition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &def,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode table definition: %w", err)
	}
	return &def, nil
}

// Label returns the human label of a state, or the state ID itself.
func (d *Definition) Label(id domain.StateID) string {
	if l, ok := d.Labels[string(id)]; ok && l != "" {
		return l
	}
	return string(id)
}

// EffectNames returns the effect names the transitions refer to, in order of
// first use.
func (d *Definition) EffectNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range d.Transitions {
		if t.EffectName == "" || seen[t.EffectName] {
			continue
		}
		seen[t.EffectName] = true
		names = append(names, t.EffectName)
	}
	return names
}
