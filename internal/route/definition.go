package route

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultGroup is assigned to routes that do not name a group.
const DefaultGroup = "default"

// File is the YAML document holding route definitions.
type File struct {
	Routes []Definition `yaml:"routes"`
}

// Definition describes one route: an input endpoint followed by steps.
type Definition struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description,omitempty"`
	Group       string `yaml:"group,omitempty"`
	From        string `yaml:"from"`
	Steps       []Step `yaml:"steps,omitempty"`
	AutoStartup bool   `yaml:"autoStartup"`
}

// UnmarshalYAML decodes a definition on top of its defaults.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	type plain Definition

	p := plain{Group: DefaultGroup, AutoStartup: true}
	if err := node.Decode(&p); err != nil {
		return err
	}

	*d = Definition(p)

	return nil
}

// Outputs returns the endpoint URIs of all "to" steps.
func (d *Definition) Outputs() []string {
	var out []string

	for _, s := range d.Steps {
		if s.To != "" {
			out = append(out, s.To)
		}
	}

	return out
}

// Step is one processing step. Exactly one field is expected to be set.
type Step struct {
	To        string `yaml:"to,omitempty"`
	Log       string `yaml:"log,omitempty"`
	Filter    string `yaml:"filter,omitempty"`
	Transform string `yaml:"transform,omitempty"`
}

// Kind names the populated field of the step, or "" for an empty step.
func (s Step) Kind() string {
	switch {
	case s.To != "":
		return "to"
	case s.Log != "":
		return "log"
	case s.Filter != "":
		return "filter"
	case s.Transform != "":
		return "transform"
	default:
		return ""
	}
}

// LoadFile loads and parses a YAML route file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse route YAML: %w", err)
	}

	for i := range f.Routes {
		if f.Routes[i].Group == "" {
			f.Routes[i].Group = DefaultGroup
		}
	}

	return &f, nil
}
