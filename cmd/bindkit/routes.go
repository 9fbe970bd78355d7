package main

import (
	"context"
	"fmt"
	"strings"

	"bindkit/internal/diagnostic"
	"bindkit/internal/route"
)

func runRoutes(c *cli, _ context.Context, args []string) error {
	fs := c.flags("routes")
	file := fs.String("file", "", "YAML route file")
	maxSteps := fs.Int("max-steps", 0, "maximum steps per route, 0 for no limit")
	schemes := fs.String("schemes", "", "comma separated list of allowed input schemes")

	if err := c.parse(fs, args); err != nil {
		return err
	}

	if *file == "" {
		return usageErrorf("-file is required")
	}

	f, err := route.LoadFile(*file)
	if err != nil {
		return err
	}

	v := route.DefaultValidator()
	if *maxSteps > 0 {
		v.Add(route.MaxSteps(*maxSteps))
	}

	if *schemes != "" {
		v.Add(route.InputScheme(strings.Split(*schemes, ",")...))
	}

	diags := route.ValidateAll(f.Routes, v)
	printDiagnostics(c, diags)

	fmt.Fprintf(c.stdout, "%d routes, %d checks, %d errors\n", len(f.Routes), v.Len(), len(diags.Errors))

	if diags.HasErrors() {
		return errFindings
	}

	return nil
}

func printDiagnostics(c *cli, diags diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		fmt.Fprintf(c.stdout, "%s: %s\n", d.Severity, d)
	}
}
