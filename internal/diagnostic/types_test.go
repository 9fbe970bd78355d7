package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Error(t *testing.T) {
	var d Diagnostics
	assert.NoError(t, d.Error())
	assert.True(t, d.IsValid())

	d.AddWarning("W", "ignored", "", "")
	d.AddError("ROUTE_CHECK_FAILED", "check hasOutput failed", "orders", "steps", "add a to step")
	d.AddError("X", "plain", "", "")

	require.Error(t, d.Error())
	assert.Equal(t,
		"[orders] steps: [ROUTE_CHECK_FAILED] check hasOutput failed (try: add a to step); [X] plain",
		d.Error().Error())
	assert.Len(t, d.All(), 3)
	assert.Equal(t, SeverityWarning, d.All()[2].Severity)
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddInfo("I", "info", "T", "")
	b.AddError("E", "error", "T", "")

	a.Merge(b)

	assert.True(t, a.HasErrors())
	assert.Len(t, a.Infos, 1)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
