package persistence

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"bindkit/internal/match"
	"bindkit/internal/naming"
	"bindkit/internal/semver"
)

// File is the YAML document holding persistence units.
type File struct {
	Version semver.Version `yaml:"version"`
	Units   []Unit         `yaml:"units"`
}

// Unit configures one database and the types mapped onto it.
type Unit struct {
	Name         string            `yaml:"name"`
	Driver       string            `yaml:"driver"`
	DataSource   string            `yaml:"dataSource"`
	Catalog      string            `yaml:"catalog,omitempty"`
	Schema       string            `yaml:"schema,omitempty"`
	ManagedTypes []string          `yaml:"managedTypes,omitempty"`
	Naming       NamingConfig      `yaml:"naming,omitempty"`
	Properties   map[string]string `yaml:"properties,omitempty"`
}

// NamingConfig selects a transform name per identifier kind. See
// naming.TransformByName for the accepted names.
type NamingConfig struct {
	Locale   string `yaml:"locale,omitempty"`
	Catalog  string `yaml:"catalog,omitempty"`
	Schema   string `yaml:"schema,omitempty"`
	Table    string `yaml:"table,omitempty"`
	Sequence string `yaml:"sequence,omitempty"`
	Column   string `yaml:"column,omitempty"`
}

// LoadFile loads and parses a YAML persistence file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read persistence file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File and validates every unit.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse persistence YAML: %w", err)
	}

	seen := make(map[string]bool, len(f.Units))

	for i := range f.Units {
		u := &f.Units[i]
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("unit #%d: %w", i, err)
		}

		if seen[u.Name] {
			return nil, fmt.Errorf("unit %s: defined twice", u.Name)
		}

		seen[u.Name] = true
	}

	return &f, nil
}

// Unit returns the unit called name.
func (f *File) Unit(name string) (Unit, bool) {
	for _, u := range f.Units {
		if u.Name == name {
			return u, true
		}
	}

	return Unit{}, false
}

// Validate reports missing mandatory settings.
func (u Unit) Validate() error {
	var errs []error

	if u.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}

	if u.Driver == "" {
		errs = append(errs, errors.New("driver is required"))
	}

	if u.DataSource == "" {
		errs = append(errs, errors.New("dataSource is required"))
	}

	if _, err := u.NamingStrategy(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// NamingStrategy builds the physical naming strategy of the unit. Kinds
// without a configured transform are lowercased.
func (u Unit) NamingStrategy() (*naming.PhysicalNamingStrategy, error) {
	tag := language.Und

	if u.Naming.Locale != "" {
		parsed, err := language.Parse(u.Naming.Locale)
		if err != nil {
			return nil, fmt.Errorf("naming locale %q: %w", u.Naming.Locale, err)
		}

		tag = parsed
	}

	opts := []naming.Option{naming.WithLocale(tag)}

	for kind, name := range map[naming.Kind]string{
		naming.Catalog:  u.Naming.Catalog,
		naming.Schema:   u.Naming.Schema,
		naming.Table:    u.Naming.Table,
		naming.Sequence: u.Naming.Sequence,
		naming.Column:   u.Naming.Column,
	} {
		if name == "" {
			continue
		}

		t, err := naming.TransformByName(name, tag)
		if err != nil {
			return nil, fmt.Errorf("naming %s: %w", kind, err)
		}

		opts = append(opts, naming.WithTransform(kind, t))
	}

	return naming.NewPhysicalNamingStrategy(opts...), nil
}

// Tables describes the managed types of the unit, resolving type names
// through catalog.
func (u Unit) Tables(catalog map[string]reflect.Type) ([]Table, error) {
	strategy, err := u.NamingStrategy()
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(u.ManagedTypes))

	for _, name := range u.ManagedTypes {
		t, ok := catalog[name]
		if !ok {
			known := slices.Sorted(maps.Keys(catalog))
			return nil, fmt.Errorf("unit %s: unknown managed type %s%s", u.Name, name, match.DidYouMean(name, known))
		}

		table, err := DescribeTable(strategy, u.Schema, t)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", u.Name, err)
		}

		tables = append(tables, table)
	}

	return tables, nil
}
