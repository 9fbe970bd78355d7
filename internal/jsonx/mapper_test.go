package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindkit/examples/preferences"
)

type beverage struct {
	Name     string  `json:"name"`
	Strength float64 `json:"strength,omitempty"`
}

func TestMapper_WriteString(t *testing.T) {
	got, err := New().WriteString(beverage{Name: "Ale & Porter"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ale & Porter"}`, got)

	got, err = New(WithIndent("  ")).WriteString(beverage{Name: "Idjit", Strength: 6.5})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"Idjit\",\n  \"strength\": 6.5\n}", got)
}

func TestRead(t *testing.T) {
	data := []byte(`{"name":"Idjit","brewery":"Dugges"}`)

	b, err := Read[beverage](New(), data)
	require.NoError(t, err)
	assert.Equal(t, beverage{Name: "Idjit"}, b)

	_, err = Read[beverage](New(WithStrict()), data)
	assert.Error(t, err)

	_, err = Read[beverage](New(), []byte(`{"name":"a"} {"name":"b"}`))
	assert.Error(t, err)
}

func TestReadList(t *testing.T) {
	list, err := ReadList[beverage](New(), []byte(`[{"name":"a"},{"name":"b"}]`))
	require.NoError(t, err)
	assert.Equal(t, []beverage{{Name: "a"}, {Name: "b"}}, list)

	_, err = ReadList[beverage](New(), []byte(`{"name":"a"}`))
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	p, err := Convert[preferences.Person](New(), map[string]any{
		"Name":     "Malin",
		"Age":      32,
		"Beverage": "Idjit",
	})
	require.NoError(t, err)
	assert.Equal(t, preferences.Sample().People[1], p)

	m, err := Convert[map[string]any](New(), beverage{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "x"}, m)

	_, err = Convert[beverage](New(), func() {})
	assert.Error(t, err)
}
