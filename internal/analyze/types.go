package analyze

import (
	"go/types"
	"reflect"
	"strings"

	"bindkit/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string `yaml:"package"` // e.g., "bindkit/examples/preferences"
	Name    string `yaml:"name"`    // e.g., "Person"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the type name qualified by the package name only.
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.LastSegment(t.PkgPath) + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindPointer           // pointer to another type
	TypeKindSlice             // slice of another type
	TypeKindArray             // array of another type
	TypeKindMap               // map, never bindable
	TypeKindAlias             // named type wrapping another
	TypeKindExternal          // type from a package outside the graph (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For named non-struct types, the underlying type
	ElemType   *TypeInfo   // For pointers, slices, arrays and maps, the element type
	Fields     []FieldInfo // For structs, the list of exported fields
	GoType     types.Type  // The original go/types.Type
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// Deref strips pointers.
func (t *TypeInfo) Deref() *TypeInfo {
	for t != nil && t.Kind == TypeKindPointer {
		t = t.ElemType
	}

	return t
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// IsXMLName reports whether the field is the XMLName field carrying the
// root element name.
func (f *FieldInfo) IsXMLName() bool {
	return f.Name == "XMLName" && f.Type != nil &&
		f.Type.ID == TypeID{PkgPath: "encoding/xml", Name: "Name"}
}

// XMLTag splits the xml tag into namespace, name and flags. ok is false
// when the field has no xml tag or is excluded with "-".
func (f *FieldInfo) XMLTag() (namespace, name string, flags []string, ok bool) {
	tag, found := f.Tag.Lookup("xml")
	if !found || tag == "-" {
		return "", "", nil, false
	}

	if ns, rest, spaced := strings.Cut(tag, " "); spaced {
		namespace, tag = ns, rest
	}

	parts := strings.Split(tag, ",")

	return namespace, parts[0], parts[1:], true
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}
