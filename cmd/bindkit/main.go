// Package main provides the bindkit command line tool.
//
// bindkit converts documents between XML and JSON with the bundled
// marshallers and exercises the supporting helpers:
//   - convert: XML <-> JSON of a catalogued type
//   - version: parse and compare semantic versions
//   - naming: apply a physical naming strategy
//   - routes: validate a YAML route file
//   - index: list the XML-bindable types of Go packages
//   - schema: print or apply the DDL of a persistence unit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"bindkit/internal/logging"
	"bindkit/internal/resource"
)

// envResourcePath lists extra directories relative input names are searched in.
const envResourcePath = "BINDKIT_RESOURCE_PATH"

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// errUsage marks errors caused by invalid arguments.
var errUsage = errors.New("usage")

// errFindings is returned when a validation produced error diagnostics.
var errFindings = errors.New("validation failed")

type command struct {
	name    string
	summary string
	run     func(c *cli, ctx context.Context, args []string) error
}

var commands = []command{
	{"convert", "convert a document between xml and json", runConvert},
	{"version", "parse, compare or sort versions", runVersion},
	{"naming", "apply a physical naming strategy to identifiers", runNaming},
	{"routes", "validate a route file", runRoutes},
	{"index", "list XML-bindable types of Go packages", runIndex},
	{"schema", "print or apply the DDL of persistence units", runSchema},
}

type cli struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	logger    zerolog.Logger
	resources *resource.Loader
}

func main() {
	logging.ConfigureRuntime()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &cli{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		logger:    logging.For("cli"),
		resources: resourceLoader(os.Getenv(envResourcePath)),
	}

	code := c.run(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}

func (c *cli) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		c.usage()
		return exitUsage
	}

	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}

		err := cmd.run(c, ctx, args[1:])

		switch {
		case err == nil:
			return exitOK
		case errors.Is(err, flag.ErrHelp):
			return exitOK
		case errors.Is(err, errUsage):
			fmt.Fprintf(c.stderr, "bindkit %s: %v\n", cmd.name, err)
			return exitUsage
		default:
			c.logger.Debug().Err(err).Str("command", cmd.name).Msg("command failed")
			fmt.Fprintf(c.stderr, "bindkit %s: %v\n", cmd.name, err)

			return exitFailed
		}
	}

	c.usage()

	return exitUsage
}

func (c *cli) usage() {
	fmt.Fprintln(c.stderr, "usage: bindkit <command> [flags] [args]")
	fmt.Fprintln(c.stderr)

	for _, cmd := range commands {
		fmt.Fprintf(c.stderr, "  %-8s %s\n", cmd.name, cmd.summary)
	}
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)

	return fs
}

func (c *cli) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}

		return fmt.Errorf("%w: %w", errUsage, err)
	}

	return nil
}

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// resourceLoader searches the working directory, then every entry of
// searchPath.
func resourceLoader(searchPath string) *resource.Loader {
	l := resource.NewLoader(os.DirFS("."))

	for _, dir := range filepath.SplitList(searchPath) {
		if dir != "" {
			l.Append(os.DirFS(dir))
		}
	}

	return l
}

// readInput reads stdin for "-". Local names are resolved through the
// resource search path; other paths are read directly.
func (c *cli) readInput(path string) ([]byte, error) {
	if path == "-" || path == "" {
		return io.ReadAll(c.stdin)
	}

	var (
		data []byte
		err  error
	)

	if c.resources != nil && filepath.IsLocal(path) {
		data, err = c.resources.ReadFile(filepath.ToSlash(path))
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return data, nil
}
