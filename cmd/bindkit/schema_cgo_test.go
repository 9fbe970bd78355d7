//go:build cgo

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Apply(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "schema", "-file", testdata("units.yaml"), "-apply")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, `CREATE TABLE IF NOT EXISTS "person"`)
}
