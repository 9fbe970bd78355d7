package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindkit/internal/marshal"
	"bindkit/internal/resource"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()

	return runCLIWith(t, resourceLoader(""), stdin, args...)
}

func runCLIWith(t *testing.T, resources *resource.Loader, stdin string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	c := &cli{
		stdin:     strings.NewReader(stdin),
		stdout:    &stdout,
		stderr:    &stderr,
		logger:    zerolog.Nop(),
		resources: resources,
	}

	code := c.run(context.Background(), args)

	return code, stdout.String(), stderr.String()
}

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t, "")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "usage: bindkit")

	code, _, stderr = runCLI(t, "", "frobnicate")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "convert")

	code, _, _ = runCLI(t, "", "convert", "-nosuchflag")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "", "naming", "-h")
	assert.Equal(t, exitOK, code)
}

func TestConvert_XMLToJSON(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "convert", "-in", testdata("preferences.xml"))
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, `{"people":[{"name":"Lennart","age":254,"beverage":"Avenyn Ale"}]}`+"\n", stdout)
}

func TestConvert_ResourceSearchPath(t *testing.T) {
	data, err := os.ReadFile(testdata("preferences.xml"))
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lennart.xml"), data, 0o600))

	code, _, _ := runCLI(t, "", "convert", "-in", "lennart.xml")
	assert.Equal(t, exitFailed, code)

	code, stdout, stderr := runCLIWith(t, resourceLoader(dir), "", "convert", "-in", "lennart.xml")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, `"name":"Lennart"`)
}

func TestConvert_JSONToXMLFromStdin(t *testing.T) {
	code, stdout, stderr := runCLI(t, `{"name":"Malin","age":32,"beverage":"Idjit"}`,
		"convert", "-type", "preferences.Person", "-from", "json", "-to", "xml", "-metrics")
	require.Equal(t, exitOK, code, stderr)

	assert.Equal(t,
		`<?xml version="1.0" encoding="UTF-8"?>`+"\n"+
			`<person xmlns="http://bindkit.example/person" name="Malin"><age>32</age><beverage>Idjit</beverage></person>`+"\n",
		stdout)
	assert.Contains(t, stderr, `bindkit_operations_total{format="json",op="unmarshal",outcome="success",provider="extended"} 1`)
	assert.Contains(t, stderr, `bindkit_operations_total{format="xml",op="marshal",outcome="success",provider="extended"} 1`)
}

func TestConvert_Errors(t *testing.T) {
	code, _, stderr := runCLI(t, "", "convert", "-type", "preferences.Order")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "did you mean preferences.Person?")
	assert.Contains(t, stderr, "preferences.Beverage, preferences.Person, preferences.Preferences")

	code, _, _ = runCLI(t, "", "convert", "-to", "yaml")
	assert.Equal(t, exitUsage, code)

	code, _, stderr = runCLI(t, "", "convert", "-config", testdata("reference.toml"), "-in", testdata("preferences.xml"))
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stderr, "json")

	code, _, _ = runCLI(t, "<preferences", "convert")
	assert.Equal(t, exitFailed, code)

	code, _, _ = runCLI(t, "", "convert", "-in", testdata("missing.xml"))
	assert.Equal(t, exitFailed, code)
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "version", "parse", "1.2.3.GA")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "1.2.3.GA\tmajor=1 minor=2 micro=3 qualifier=\"GA\"\n", stdout)

	code, stdout, _ = runCLI(t, "", "version", "-json", "parse", "1.2.3.GA", "4")
	require.Equal(t, exitOK, code)
	assert.Equal(t,
		`[{"version":"1.2.3.GA","major":1,"minor":2,"micro":3,"qualifier":"GA"},{"version":"4.0.0","major":4,"minor":0,"micro":0}]`+"\n",
		stdout)

	_, stdout, _ = runCLI(t, "", "version", "compare", "1.2", "1.10")
	assert.Equal(t, "1.2.0 < 1.10.0\n", stdout)

	_, stdout, _ = runCLI(t, "", "version", "compare", "3", "3.0.0")
	assert.Equal(t, "3.0.0 = 3.0.0\n", stdout)

	_, stdout, _ = runCLI(t, "", "version", "sort", "2.0", "1.0.0.Beta", "1.0")
	assert.Equal(t, "1.0.0\n1.0.0.Beta\n2.0.0\n", stdout)

	code, _, _ = runCLI(t, "", "version")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "", "version", "compare", "1")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "", "version", "parse", "1.-1")
	assert.Equal(t, exitFailed, code)
}

func TestNaming(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "naming", "-kind", "column", "-transform", "snake", "OrderLineID", `"Quoted"`)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "order_line_id\n\"Quoted\"\n", stdout)

	_, stdout, _ = runCLI(t, "", "naming", "-locale", "tr", "TITLE")
	assert.Equal(t, "tıtle\n", stdout)

	code, _, _ = runCLI(t, "", "naming", "-kind", "index", "x")
	assert.Equal(t, exitUsage, code)

	code, _, _ = runCLI(t, "", "naming")
	assert.Equal(t, exitUsage, code)
}

func TestRoutes(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "routes", "-file", testdata("routes.yaml"), "-max-steps", "3", "-schemes", "file,direct")
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, stdout, "error: [sink]: [ROUTE_CHECK_FAILED] check 2 (hasOutput) rejected the route")
	assert.Contains(t, stdout, "2 routes, 6 checks, 1 errors")

	code, _, _ = runCLI(t, "", "routes")
	assert.Equal(t, exitUsage, code)
}

func TestIndex(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "index", "bindkit/examples/preferences")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "element: preferences")
	assert.Contains(t, stdout, "prefix: person")

	code, stdout, stderr = runCLI(t, "", "index", "-config", "-provider", "reference", "bindkit/examples/preferences")
	require.Equal(t, exitOK, code, stderr)

	cfg, err := marshal.ParseConfig([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, "reference", cfg.Provider)
	assert.Equal(t, map[string]string{
		"http://bindkit.example/person":      "person",
		"http://bindkit.example/preferences": "preferences",
	}, cfg.Namespaces)
}

func TestSchema_Print(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "schema", "-file", testdata("units.yaml"))
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t,
		"-- unit preferences (2.0.0)\n"+
			`CREATE TABLE IF NOT EXISTS "person" ("name" TEXT NOT NULL, "age" INTEGER NOT NULL, "beverage" TEXT NOT NULL, PRIMARY KEY ("name"));`+"\n",
		stdout)

	code, _, _ = runCLI(t, "", "schema", "-file", testdata("units.yaml"), "-unit", "audit")
	assert.Equal(t, exitFailed, code)
}
