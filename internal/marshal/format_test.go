package marshal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"xml", XML, false},
		{"JSON", JSON, false},
		{" Xml ", XML, false},
		{"yaml", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "xml", XML.String())
	assert.Equal(t, "json", JSON.String())
	assert.Equal(t, "Format(7)", Format(7).String())
	assert.Equal(t, "application/json", JSON.ContentType())
}

func TestProviderKind(t *testing.T) {
	kind, err := ParseProviderKind("Reference")
	require.NoError(t, err)
	assert.Equal(t, ProviderReference, kind)
	assert.Equal(t, "reference", kind.String())
	assert.Equal(t, "unknown", ProviderKind(9).String())

	_, err = ParseProviderKind("moxy")
	assert.Error(t, err)

	p, err := ProviderFor(ProviderExtended)
	require.NoError(t, err)
	assert.True(t, p.Supports(JSON))
	assert.False(t, Reference().Supports(JSON))
}
