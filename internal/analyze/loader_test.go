package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const preferencesPkg = "bindkit/examples/preferences"

func TestAnalyzer_LoadPackages(t *testing.T) {
	analyzer := NewAnalyzer()
	graph, err := analyzer.LoadPackages(preferencesPkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	assert.Contains(t, graph.Packages, preferencesPkg)
	assert.Equal(t, "preferences", graph.Packages[preferencesPkg].Name)

	for _, name := range []string{"Preferences", "Person", "Beverage"} {
		assert.Contains(t, graph.Types, TypeID{PkgPath: preferencesPkg, Name: name})
	}
}

func TestAnalyzer_PersonFields(t *testing.T) {
	analyzer := NewAnalyzer()
	_, err := analyzer.LoadPackages(preferencesPkg)
	require.NoError(t, err)

	person, err := analyzer.GetStruct(preferencesPkg, "Person")
	require.NoError(t, err)
	require.Len(t, person.Fields, 4)

	xmlName := person.Fields[0]
	assert.True(t, xmlName.IsXMLName())
	assert.Equal(t, TypeKindExternal, xmlName.Type.Kind)

	ns, name, flags, ok := xmlName.XMLTag()
	require.True(t, ok)
	assert.Equal(t, "http://bindkit.example/person", ns)
	assert.Equal(t, "person", name)
	assert.Empty(t, flags)

	_, name, flags, ok = person.Fields[1].XMLTag()
	require.True(t, ok)
	assert.Equal(t, "name", name)
	assert.Equal(t, []string{"attr"}, flags)
	assert.Equal(t, "name,pk", person.Fields[1].Tag.Get("db"))
}

func TestAnalyzer_SliceField(t *testing.T) {
	analyzer := NewAnalyzer()
	_, err := analyzer.LoadPackages(preferencesPkg)
	require.NoError(t, err)

	prefs, err := analyzer.GetStruct(preferencesPkg, "Preferences")
	require.NoError(t, err)

	people := prefs.Fields[1]
	assert.Equal(t, "People", people.Name)
	assert.Equal(t, TypeKindSlice, people.Type.Kind)
	assert.Equal(t, TypeID{PkgPath: preferencesPkg, Name: "Person"}, people.Type.ElemType.ID)
	assert.Equal(t, TypeKindStruct, people.Type.ElemType.Kind)
}

func TestAnalyzer_Errors(t *testing.T) {
	analyzer := NewAnalyzer()

	_, err := analyzer.LoadPackages("bindkit/does/not/exist")
	assert.Error(t, err)

	_, err = analyzer.GetStruct(preferencesPkg, "Person")
	assert.Error(t, err)

	_, err = analyzer.LoadPackages(preferencesPkg)
	require.NoError(t, err)

	_, err = analyzer.GetStruct(preferencesPkg, "Catalog")
	assert.Error(t, err, "functions are not types")
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "map", TypeKindMap.String())
	assert.Equal(t, "external", TypeKindExternal.String())
	assert.Equal(t, "unknown", TypeKind(99).String())
}

func TestTypeID(t *testing.T) {
	id := TypeID{PkgPath: preferencesPkg, Name: "Person"}
	assert.Equal(t, "bindkit/examples/preferences.Person", id.String())
	assert.Equal(t, "preferences.Person", id.Short())
	assert.Equal(t, "int", TypeID{Name: "int"}.Short())
}
