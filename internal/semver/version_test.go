package semver

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Version
		wantErr bool
	}{
		{name: "major only", in: "3", want: Version{Major: 3}},
		{name: "major minor", in: "3.1", want: Version{Major: 3, Minor: 1}},
		{name: "full", in: "2.11.4", want: Version{Major: 2, Minor: 11, Micro: 4}},
		{name: "qualifier", in: "1.0.0.Final", want: Version{Major: 1, Qualifier: "Final"}},
		{name: "leading zeros", in: "01.002.0", want: Version{Major: 1, Minor: 2}},
		{name: "empty", in: "", wantErr: true},
		{name: "five segments", in: "1.2.3.q.x", wantErr: true},
		{name: "negative", in: "1.-2.3", wantErr: true},
		{name: "not a number", in: "1.x", wantErr: true},
		{name: "empty segment", in: "1..3", wantErr: true},
		{name: "empty qualifier", in: "1.2.3.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidVersion)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	_, err := New(1, -1, 0, "")
	require.ErrorIs(t, err, ErrInvalidVersion)

	v, err := New(4, 2, 0, "RC1")
	require.NoError(t, err)
	assert.Equal(t, "4.2.0.RC1", v.String())

	assert.Panics(t, func() { MustNew(-1, 0, 0, "") })
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []Version{
		Undefined,
		MustNew(1, 2, 3, ""),
		MustNew(10, 0, 7, "SNAPSHOT"),
	} {
		back, err := Parse(v.String())
		require.NoError(t, err)
		assert.True(t, v.Equal(back), "%s", v)
	}
}

func TestCompare(t *testing.T) {
	sorted := []Version{
		Undefined,
		MustNew(0, 0, 1, ""),
		MustNew(1, 0, 0, ""),
		MustNew(1, 0, 0, "Alpha"),
		MustNew(1, 0, 0, "Beta"),
		MustNew(1, 2, 0, ""),
		MustNew(2, 0, 0, ""),
	}

	shuffled := slices.Clone(sorted)
	slices.Reverse(shuffled)
	slices.SortFunc(shuffled, Version.Compare)

	assert.Equal(t, sorted, shuffled)
	assert.True(t, sorted[1].Less(sorted[2]))
	assert.False(t, sorted[2].Less(sorted[2]))
	assert.True(t, Undefined.IsUndefined())
	assert.False(t, sorted[1].IsUndefined())
}

func TestTextEncoding(t *testing.T) {
	var doc struct {
		Version Version `yaml:"version"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("version: 2.3.1.GA\n"), &doc))
	assert.Equal(t, MustNew(2, 3, 1, "GA"), doc.Version)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "version: 2.3.1.GA\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("version: x\n"), &doc))
}
