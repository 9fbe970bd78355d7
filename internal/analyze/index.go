package analyze

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"bindkit/internal/common"
	"bindkit/internal/diagnostic"
)

// Entry is one XML-bindable struct type.
type Entry struct {
	Type TypeID `yaml:"type"`
	// Namespace and Element form the root element name. Element defaults to
	// the Go type name when the type has no XMLName tag.
	Namespace string `yaml:"namespace,omitempty"`
	Element   string `yaml:"element"`
	// Namespaces lists every namespace URI used by the root or its fields.
	Namespaces []string `yaml:"namespaces,omitempty"`
}

// Index lists the bindable types of a type graph, ordered by TypeID.
type Index struct {
	Entries []Entry `yaml:"types"`
}

// PrefixSuggestion proposes a prefix for a namespace URI.
type PrefixSuggestion struct {
	URI    string `yaml:"uri"`
	Prefix string `yaml:"prefix"`
}

// BuildIndex collects the struct types of g that carry an XMLName field or
// at least one xml tag.
func BuildIndex(g *TypeGraph) (*Index, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	idx := &Index{}
	roots := make(map[string]TypeID)

	ids := slices.SortedFunc(maps.Keys(g.Types), func(a, b TypeID) int {
		return cmp.Or(cmp.Compare(a.PkgPath, b.PkgPath), cmp.Compare(a.Name, b.Name))
	})

	for _, id := range ids {
		info := g.Types[id]
		if info.Kind != TypeKindStruct || !isBindable(info) {
			continue
		}

		entry := Entry{Type: id, Element: id.Name}
		namespaces := make(map[string]bool)
		hasRoot := false

		for i := range info.Fields {
			f := &info.Fields[i]

			ns, name, _, ok := f.XMLTag()

			if f.IsXMLName() {
				hasRoot = true

				if ok {
					entry.Namespace = ns
					if name != "" {
						entry.Element = name
					}
				}

				if entry.Namespace != "" {
					namespaces[entry.Namespace] = true
				}

				continue
			}

			if ns != "" {
				namespaces[ns] = true
			}

			if ft := f.Type.Deref(); ft != nil && ft.Kind == TypeKindMap {
				diags.AddWarning("XML_FIELD_UNBINDABLE",
					"map fields cannot be bound and are rejected at marshal time",
					id.String(), f.Name)
			}
		}

		if !hasRoot {
			diags.AddInfo("XML_ROOT_MISSING",
				fmt.Sprintf("no XMLName field, root element defaults to %q", entry.Element),
				id.String(), "", "add an XMLName xml.Name field with a namespaced tag")
		}

		key := entry.Namespace + " " + entry.Element
		if other, dup := roots[key]; dup {
			diags.AddWarning("XML_ROOT_CONFLICT",
				fmt.Sprintf("root element %s is also bound by %s", key, other),
				id.String(), "", "register only one of the types with a marshaller")
		} else {
			roots[key] = id
		}

		entry.Namespaces = slices.Sorted(maps.Keys(namespaces))
		idx.Entries = append(idx.Entries, entry)
	}

	return idx, diags
}

func isBindable(info *TypeInfo) bool {
	for i := range info.Fields {
		f := &info.Fields[i]
		if f.IsXMLName() {
			return true
		}

		if _, ok := f.Tag.Lookup("xml"); ok {
			return true
		}
	}

	return false
}

// Lookup returns the entry of id.
func (idx *Index) Lookup(id TypeID) (Entry, bool) {
	for _, e := range idx.Entries {
		if e.Type == id {
			return e, true
		}
	}

	return Entry{}, false
}

// Namespaces returns every namespace URI of the index, sorted.
func (idx *Index) Namespaces() []string {
	set := make(map[string]bool)

	for _, e := range idx.Entries {
		for _, ns := range e.Namespaces {
			set[ns] = true
		}
	}

	return slices.Sorted(maps.Keys(set))
}

// SuggestPrefixes proposes one prefix per namespace, derived from the last
// segment of the URI. Collisions get numeric suffixes starting at 2.
func (idx *Index) SuggestPrefixes() []PrefixSuggestion {
	uris := idx.Namespaces()
	out := make([]PrefixSuggestion, 0, len(uris))
	used := make(map[string]bool, len(uris))

	for _, uri := range uris {
		base := prefixCandidate(uri)

		prefix := base
		for n := 2; used[prefix]; n++ {
			prefix = base + strconv.Itoa(n)
		}

		used[prefix] = true

		out = append(out, PrefixSuggestion{URI: uri, Prefix: prefix})
	}

	return out
}

// prefixCandidate turns the last URI segment into a valid, lowercase XML
// prefix, falling back to "ns".
func prefixCandidate(uri string) string {
	segment := strings.TrimSuffix(common.LastSegment(uri), ".xsd")

	var b strings.Builder

	for _, r := range strings.ToLower(segment) {
		switch {
		case unicode.IsLetter(r), r == '_':
			b.WriteRune(r)
		case (unicode.IsDigit(r) || r == '-' || r == '.') && b.Len() > 0:
			b.WriteRune(r)
		}
	}

	prefix := b.String()
	if prefix == "" || strings.HasPrefix(prefix, "xml") {
		return "ns"
	}

	return prefix
}
