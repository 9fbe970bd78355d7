package main

import (
	"context"
	"fmt"
	"slices"

	"bindkit/internal/common"
	"bindkit/internal/jsonx"
	"bindkit/internal/semver"
)

type versionReport struct {
	Version   semver.Version `json:"version"`
	Major     int            `json:"major"`
	Minor     int            `json:"minor"`
	Micro     int            `json:"micro"`
	Qualifier string         `json:"qualifier,omitempty"`
}

func runVersion(c *cli, _ context.Context, args []string) error {
	fs := c.flags("version")
	asJSON := fs.Bool("json", false, "print parse results as a JSON array")

	if err := c.parse(fs, args); err != nil {
		return err
	}

	sub, ok := common.First(fs.Args())
	if !ok {
		return usageErrorf("expected parse, compare or sort")
	}

	versions := make([]semver.Version, 0, fs.NArg()-1)

	for _, raw := range fs.Args()[1:] {
		v, err := semver.Parse(raw)
		if err != nil {
			return err
		}

		versions = append(versions, v)
	}

	switch sub {
	case "parse":
		if common.IsEmpty(versions) {
			return usageErrorf("parse needs at least one version")
		}

		if *asJSON {
			reports := make([]versionReport, 0, len(versions))
			for _, v := range versions {
				reports = append(reports, versionReport{v, v.Major, v.Minor, v.Micro, v.Qualifier})
			}

			return jsonx.New().Write(c.stdout, reports)
		}

		for _, v := range versions {
			fmt.Fprintf(c.stdout, "%s\tmajor=%d minor=%d micro=%d qualifier=%q\n",
				v, v.Major, v.Minor, v.Micro, v.Qualifier)
		}
	case "compare":
		if len(versions) != 2 {
			return usageErrorf("compare needs exactly two versions")
		}

		op := "="

		switch versions[0].Compare(versions[1]) {
		case -1:
			op = "<"
		case 1:
			op = ">"
		}

		fmt.Fprintf(c.stdout, "%s %s %s\n", versions[0], op, versions[1])
	case "sort":
		slices.SortStableFunc(versions, semver.Version.Compare)

		for _, v := range versions {
			fmt.Fprintln(c.stdout, v)
		}
	default:
		return usageErrorf("unknown version command %q", sub)
	}

	return nil
}
