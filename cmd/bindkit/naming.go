package main

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"bindkit/internal/common"
	"bindkit/internal/naming"
)

func runNaming(c *cli, _ context.Context, args []string) error {
	fs := c.flags("naming")
	kindName := fs.String("kind", "table", "identifier kind: catalog|schema|table|sequence|column")
	transform := fs.String("transform", "lower", "transform: lower|snake|none")
	locale := fs.String("locale", "und", "BCP 47 locale used for lowercasing")

	if err := c.parse(fs, args); err != nil {
		return err
	}

	if common.IsEmpty(fs.Args()) {
		return usageErrorf("expected at least one identifier")
	}

	kind, err := naming.ParseKind(*kindName)
	if err != nil {
		return usageErrorf("%v", err)
	}

	tag, err := language.Parse(*locale)
	if err != nil {
		return usageErrorf("locale %q: %v", *locale, err)
	}

	t, err := naming.TransformByName(*transform, tag)
	if err != nil {
		return usageErrorf("%v", err)
	}

	strategy := naming.NewPhysicalNamingStrategy(naming.WithLocale(tag), naming.WithTransform(kind, t))

	for _, raw := range fs.Args() {
		fmt.Fprintln(c.stdout, strategy.Apply(kind, naming.ToIdentifier(raw)))
	}

	return nil
}
