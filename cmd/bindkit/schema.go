package main

import (
	"context"
	"errors"
	"fmt"

	"bindkit/examples/preferences"
	"bindkit/internal/directory"
	"bindkit/internal/match"
	"bindkit/internal/persistence"
)

func runSchema(c *cli, ctx context.Context, args []string) error {
	fs := c.flags("schema")
	file := fs.String("file", "", "YAML persistence file")
	unitName := fs.String("unit", "", "persistence unit, all units when empty")
	apply := fs.Bool("apply", false, "create the tables in the unit databases")

	if err := c.parse(fs, args); err != nil {
		return err
	}

	if *file == "" {
		return usageErrorf("-file is required")
	}

	pf, err := persistence.LoadFile(*file)
	if err != nil {
		return err
	}

	units := pf.Units
	if *unitName != "" {
		u, ok := pf.Unit(*unitName)
		if !ok {
			names := make([]string, len(pf.Units))
			for i, u := range pf.Units {
				names[i] = u.Name
			}

			return fmt.Errorf("unit %s not found in %s%s", *unitName, *file, match.DidYouMean(*unitName, names))
		}

		units = []persistence.Unit{u}
	}

	dir := directory.New()

	for _, u := range units {
		tables, err := u.Tables(preferences.Catalog())
		if err != nil {
			return err
		}

		fmt.Fprintf(c.stdout, "-- unit %s (%s)\n", u.Name, pf.Version)

		for _, t := range tables {
			fmt.Fprintf(c.stdout, "%s;\n", t.CreateSQL())
		}

		if *apply {
			if err := applySchema(c, ctx, dir, u, tables); err != nil {
				return err
			}
		}
	}

	return nil
}

func applySchema(c *cli, ctx context.Context, dir *directory.Context, u persistence.Unit, tables []persistence.Table) (err error) {
	db, err := persistence.Open(ctx, u)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, db.Close())
	}()

	if err := persistence.CreateSchema(ctx, db, tables...); err != nil {
		return err
	}

	name, err := persistence.Bind(dir, u, db)
	if err != nil {
		return err
	}

	c.logger.Info().Str("unit", u.Name).Str("name", name).Int("tables", len(tables)).Msg("schema applied")

	return nil
}
