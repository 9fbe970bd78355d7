package marshal

import (
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

type fieldKind int

const (
	fieldElement fieldKind = iota
	fieldAttr
	fieldCharData
	fieldSkipped // innerxml, comment, any
)

// fieldInfo describes how one struct field is bound, derived from its xml tag.
type fieldInfo struct {
	index     []int
	goName    string
	name      string
	xmlns     string
	parents   []string
	kind      fieldKind
	omitEmpty bool
	typ       reflect.Type
}

// typeInfo is the binding metadata of a struct type.
type typeInfo struct {
	typ    reflect.Type
	root   xml.Name // from the XMLName field, Local empty when absent
	fields []fieldInfo
}

var typeInfoCache sync.Map // reflect.Type -> *typeInfo

var xmlNameType = reflect.TypeFor[xml.Name]()

// getTypeInfo returns the binding metadata of struct type t.
func getTypeInfo(t reflect.Type) (*typeInfo, error) {
	if ti, ok := typeInfoCache.Load(t); ok {
		return ti.(*typeInfo), nil
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type %s cannot be bound: not a struct", t)
	}

	ti := &typeInfo{typ: t}
	if err := collectFields(t, nil, ti); err != nil {
		return nil, err
	}

	actual, _ := typeInfoCache.LoadOrStore(t, ti)

	return actual.(*typeInfo), nil
}

func collectFields(t reflect.Type, index []int, ti *typeInfo) error {
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("xml")

		if f.Anonymous && tag == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}

			if ft.Kind() == reflect.Struct {
				if err := collectFields(ft, appendIndex(index, i), ti); err != nil {
					return err
				}

				continue
			}
		}

		if !f.IsExported() || tag == "-" {
			continue
		}

		if f.Name == "XMLName" && f.Type == xmlNameType {
			if len(index) == 0 {
				ti.root = parseRootTag(tag)
			}

			continue
		}

		fi, err := parseFieldTag(f, tag)
		if err != nil {
			return fmt.Errorf("type %s: %w", t, err)
		}

		fi.index = appendIndex(index, i)
		ti.fields = append(ti.fields, fi)
	}

	return nil
}

func appendIndex(index []int, i int) []int {
	out := make([]int, len(index)+1)
	copy(out, index)
	out[len(index)] = i

	return out
}

func parseRootTag(tag string) xml.Name {
	var name xml.Name
	if ns, local, ok := strings.Cut(tag, " "); ok {
		name.Space = ns
		tag = local
	}

	name.Local, _, _ = strings.Cut(tag, ",")

	return name
}

func parseFieldTag(f reflect.StructField, tag string) (fieldInfo, error) {
	fi := fieldInfo{goName: f.Name, typ: f.Type}

	if ns, rest, ok := strings.Cut(tag, " "); ok {
		fi.xmlns = ns
		tag = rest
	}

	tokens := strings.Split(tag, ",")
	name := tokens[0]

	for _, flag := range tokens[1:] {
		switch flag {
		case "attr":
			fi.kind = fieldAttr
		case "chardata", "cdata":
			fi.kind = fieldCharData
		case "innerxml", "comment", "any":
			fi.kind = fieldSkipped
		case "omitempty":
			fi.omitEmpty = true
		case "":
		default:
			return fi, fmt.Errorf("field %s: unsupported xml tag flag %q", f.Name, flag)
		}
	}

	if strings.Contains(name, ">") {
		if fi.kind != fieldElement {
			return fi, fmt.Errorf("field %s: parent chain is only valid for elements", f.Name)
		}

		parts := strings.Split(name, ">")
		for _, p := range parts {
			if p == "" {
				return fi, fmt.Errorf("field %s: empty element in parent chain %q", f.Name, name)
			}
		}

		fi.parents = parts[:len(parts)-1]
		name = parts[len(parts)-1]
	}

	if name == "" {
		name = f.Name
	}

	fi.name = name

	return fi, nil
}

// rootName returns the element name of t: the XMLName tag when present,
// otherwise the Go type name.
func (ti *typeInfo) rootName() xml.Name {
	if ti.root.Local != "" {
		return ti.root
	}

	return xml.Name{Space: ti.root.Space, Local: ti.typ.Name()}
}
