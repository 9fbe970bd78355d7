package main

import (
	"context"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"bindkit/internal/analyze"
	"bindkit/internal/marshal"
)

type indexReport struct {
	Types       []analyze.Entry            `yaml:"types"`
	Prefixes    []analyze.PrefixSuggestion `yaml:"prefixes"`
	Diagnostics []string                   `yaml:"diagnostics,omitempty"`
}

func runIndex(c *cli, _ context.Context, args []string) error {
	fs := c.flags("index")
	dir := fs.String("dir", "", "directory package patterns are resolved from")
	asConfig := fs.Bool("config", false, "print a TOML marshaller configuration with the suggested prefixes")
	provider := fs.String("provider", "extended", "provider of the generated configuration")

	if err := c.parse(fs, args); err != nil {
		return err
	}

	patterns := fs.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	graph, err := analyze.NewAnalyzer(analyze.WithDir(*dir), analyze.WithLogger(c.logger)).LoadPackages(patterns...)
	if err != nil {
		return err
	}

	idx, diags := analyze.BuildIndex(graph)

	for _, w := range diags.Warnings {
		c.logger.Warn().Str("code", w.Code).Str("type", w.Subject).Msg(w.Message)
	}

	if *asConfig {
		if _, err := marshal.ParseProviderKind(*provider); err != nil {
			return usageErrorf("%v", err)
		}

		cfg := marshal.Config{Provider: *provider, Namespaces: make(map[string]string)}
		for _, s := range idx.SuggestPrefixes() {
			cfg.Namespaces[s.URI] = s.Prefix
		}

		out, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to render configuration: %w", err)
		}

		_, err = c.stdout.Write(out)

		return err
	}

	report := indexReport{Types: idx.Entries, Prefixes: idx.SuggestPrefixes()}
	for _, d := range diags.All() {
		report.Diagnostics = append(report.Diagnostics, d.String())
	}

	enc := yaml.NewEncoder(c.stdout)
	enc.SetIndent(2)

	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}

	if err := enc.Close(); err != nil {
		return err
	}

	if diags.HasErrors() {
		return errFindings
	}

	return nil
}
