package main

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"bindkit/examples/preferences"
	"bindkit/internal/marshal"
	"bindkit/internal/match"
	"bindkit/internal/metrics"
)

func runConvert(c *cli, _ context.Context, args []string) error {
	fs := c.flags("convert")
	configPath := fs.String("config", "", "TOML marshaller configuration")
	typeName := fs.String("type", "preferences.Preferences", "catalogued type of the document")
	from := fs.String("from", "xml", "input format: xml|json")
	to := fs.String("to", "json", "output format: xml|json")
	in := fs.String("in", "-", "input file, - for stdin")
	showMetrics := fs.Bool("metrics", false, "print operation metrics to stderr")

	if err := c.parse(fs, args); err != nil {
		return err
	}

	catalog := preferences.Catalog()

	t, ok := catalog[*typeName]
	if !ok {
		known := slices.Sorted(maps.Keys(catalog))

		return usageErrorf("unknown type %q%s, known types: %s",
			*typeName, match.DidYouMean(*typeName, known), strings.Join(known, ", "))
	}

	fromFormat, err := marshal.ParseFormat(*from)
	if err != nil {
		return usageErrorf("%v", err)
	}

	toFormat, err := marshal.ParseFormat(*to)
	if err != nil {
		return usageErrorf("%v", err)
	}

	var cfg marshal.Config
	if *configPath != "" {
		if cfg, err = marshal.LoadConfig(*configPath); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()

	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}

	m, err := cfg.NewMarshaller(
		marshal.WithTypes(t),
		marshal.WithLogger(c.logger),
		marshal.WithMetrics(collector),
	)
	if err != nil {
		return err
	}

	data, err := c.readInput(*in)
	if err != nil {
		return err
	}

	doc := reflect.New(t)
	if err := m.Unmarshal(fromFormat, string(data), doc.Interface()); err != nil {
		return err
	}

	out, err := m.Marshal(toFormat, doc.Elem().Interface())
	if err != nil {
		return err
	}

	fmt.Fprintln(c.stdout, out)

	if *showMetrics {
		return writeMetrics(c, reg)
	}

	return nil
}

func writeMetrics(c *cli, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(c.stderr, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return nil
}
