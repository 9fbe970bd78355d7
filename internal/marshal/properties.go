package marshal

import (
	"fmt"
	"maps"
	"strconv"
)

// Property keys understood by the bundled providers. Other keys are ignored.
const (
	PropertyFormattedOutput          = "bindkit.formatted-output"
	PropertyFragment                 = "bindkit.fragment"
	PropertyJSONIncludeRoot          = "bindkit.json.include-root"
	PropertyJSONWrapperAsArrayName   = "bindkit.json.wrapper-as-array-name"
	PropertyJSONOmitEmptyCollections = "bindkit.json.omit-empty-collections"
	PropertyJSONValueWrapper         = "bindkit.json.value-wrapper"
)

// Properties are provider configuration values. The marshaller passes them
// through unchanged; their meaning is defined by the provider.
type Properties map[string]any

// Clone returns a shallow copy.
func (p Properties) Clone() Properties {
	if p == nil {
		return Properties{}
	}

	return maps.Clone(p)
}

// Bool reads a boolean property, accepting bool values or parseable strings.
func (p Properties) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}

	switch tv := v.(type) {
	case bool:
		return tv, nil
	case string:
		b, err := strconv.ParseBool(tv)
		if err != nil {
			return def, fmt.Errorf("property %s: %w", key, err)
		}

		return b, nil
	default:
		return def, fmt.Errorf("property %s: expected bool, got %T", key, v)
	}
}

// String reads a string property.
func (p Properties) String(key, def string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return def, nil
	}

	s, ok := v.(string)
	if !ok {
		return def, fmt.Errorf("property %s: expected string, got %T", key, v)
	}

	return s, nil
}
