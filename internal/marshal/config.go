package marshal

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// Config is the file form of a Marshaller configuration:
//
//	provider = "extended"
//
//	[namespaces]
//	"http://bindkit.example/preferences" = "prefs"
//
//	[properties]
//	"bindkit.formatted-output" = true
type Config struct {
	Provider   string            `toml:"provider"`
	Namespaces map[string]string `toml:"namespaces,omitempty"`
	Properties map[string]any    `toml:"properties,omitempty"`
}

// LoadConfig loads and parses a TOML marshaller configuration.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	return cfg, nil
}

// ParseConfig parses TOML data into a Config and validates the provider name.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	if _, err := ParseProviderKind(cfg.Provider); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// NewMarshaller builds a Marshaller from the configuration. Options are
// applied after the configured namespaces and properties.
func (c Config) NewMarshaller(opts ...Option) (*Marshaller, error) {
	kind, err := ParseProviderKind(c.Provider)
	if err != nil {
		return nil, err
	}

	provider, err := ProviderFor(kind)
	if err != nil {
		return nil, err
	}

	base := make([]Option, 0, len(c.Namespaces)+1+len(opts))
	for _, uri := range slices.Sorted(maps.Keys(c.Namespaces)) {
		base = append(base, WithNamespace(uri, c.Namespaces[uri]))
	}

	base = append(base, WithProperties(c.Properties))

	return New(provider, append(base, opts...)...), nil
}
