package marshal

import (
	"bytes"
	"encoding"
	"fmt"
	"io"
	"reflect"

	"github.com/goccy/go-json"
)

// jsonSettings control the JSON binding of the extended provider.
type jsonSettings struct {
	formatted            bool
	includeRoot          bool
	wrapperAsArrayName   bool
	omitEmptyCollections bool
	valueWrapper         string
}

// jsonObject is a JSON object that keeps keys in binding order.
type jsonObject struct {
	keys   []string
	values map[string]any
}

func newJSONObject() *jsonObject {
	return &jsonObject{values: make(map[string]any)}
}

func (o *jsonObject) set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.values[key] = v
}

// put stores v under a key no other field has claimed.
func (o *jsonObject) put(key string, v any) error {
	if _, ok := o.values[key]; ok {
		return fmt.Errorf("key %q is bound by more than one field", key)
	}

	o.set(key, v)

	return nil
}

// child returns the nested object stored under key, creating it when missing.
func (o *jsonObject) child(key string) (*jsonObject, error) {
	existing, ok := o.values[key]
	if !ok {
		c := newJSONObject()
		o.set(key, c)

		return c, nil
	}

	c, ok := existing.(*jsonObject)
	if !ok {
		return nil, fmt.Errorf("key %q holds a value and cannot nest other fields", key)
	}

	return c, nil
}

// descend walks parents from o, creating nested objects as needed.
func (o *jsonObject) descend(parents []string) (*jsonObject, error) {
	target := o

	for _, p := range parents {
		var err error
		if target, err = target.child(p); err != nil {
			return nil, err
		}
	}

	return target, nil
}

func (o *jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", k, err)
		}

		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

type jsonEncoder struct {
	settings jsonSettings
}

// marshalJSON renders one object as a JSON value and several as a JSON array.
func (e *jsonEncoder) marshalJSON(w io.Writer, objs []any) error {
	docs := make([]any, 0, len(objs))

	for _, obj := range objs {
		doc, err := e.encodeDocument(reflect.ValueOf(obj))
		if err != nil {
			return err
		}

		docs = append(docs, doc)
	}

	var out any = docs
	if len(docs) == 1 {
		out = docs[0]
	}

	data, err := json.Marshal(out)
	if err != nil {
		return err
	}

	if e.settings.formatted {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}

		data = buf.Bytes()
	}

	_, err = w.Write(data)

	return err
}

func (e *jsonEncoder) encodeDocument(v reflect.Value) (any, error) {
	v = indirectValue(v)
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: nil value", ErrInvalidArgument)
	}

	doc, _, err := e.encodeValue(v, newPath(v.Type().Name()))
	if err != nil {
		return nil, err
	}

	if !e.settings.includeRoot || v.Kind() != reflect.Struct {
		return doc, nil
	}

	ti, err := getTypeInfo(v.Type())
	if err != nil {
		return nil, err
	}

	root := newJSONObject()
	root.set(ti.rootName().Local, doc)

	return root, nil
}

// encodeValue converts v into a JSON-ready value. The boolean is false when
// the value is absent and must be omitted.
func (e *jsonEncoder) encodeValue(v reflect.Value, at *path) (any, bool, error) {
	if !v.IsValid() {
		return nil, false, nil
	}

	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
		return nil, false, nil
	}

	if text, ok, err := marshalText(v); ok || err != nil {
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", at, err)
		}

		return text, true, nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return e.encodeValue(v.Elem(), at)
	case reflect.String:
		return v.String(), true, nil
	case reflect.Bool:
		return v.Bool(), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint(), true, nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), true, nil
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return string(bytesOf(v)), true, nil
		}

		items := make([]any, 0, v.Len())
		for i := range v.Len() {
			item, ok, err := e.encodeValue(v.Index(i), at.index(i))
			if err != nil {
				return nil, false, err
			}

			if ok {
				items = append(items, item)
			}
		}

		return items, true, nil
	case reflect.Struct:
		obj, err := e.encodeStruct(v, at)
		if err != nil {
			return nil, false, err
		}

		return obj, true, nil
	default:
		return nil, false, fmt.Errorf("%s: %s values cannot be bound", at, v.Type())
	}
}

func (e *jsonEncoder) encodeStruct(v reflect.Value, at *path) (*jsonObject, error) {
	ti, err := getTypeInfo(v.Type())
	if err != nil {
		return nil, err
	}

	obj := newJSONObject()

	for i := range ti.fields {
		fi := &ti.fields[i]
		if fi.kind == fieldSkipped {
			continue
		}

		fv, err := v.FieldByIndexErr(fi.index)
		if err != nil {
			// nil embedded pointer
			continue
		}

		if fi.omitEmpty && fv.IsZero() {
			continue
		}

		fieldPath := at.field(fi.goName)

		if isCollection(fv) {
			if fv.Len() == 0 && e.settings.omitEmptyCollections {
				continue
			}

			items, _, err := e.encodeValue(fv, fieldPath)
			if err != nil {
				return nil, err
			}

			if err := e.placeCollection(obj, fi, items); err != nil {
				return nil, fmt.Errorf("%s: %w", fieldPath, err)
			}

			continue
		}

		val, ok, err := e.encodeValue(fv, fieldPath)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		switch fi.kind {
		case fieldCharData:
			err = obj.put(e.settings.valueWrapper, val)
		default:
			var target *jsonObject
			if target, err = obj.descend(fi.parents); err == nil {
				err = target.put(fi.name, val)
			}
		}

		if err != nil {
			return nil, fmt.Errorf("%s: %w", fieldPath, err)
		}
	}

	return obj, nil
}

// placeCollection stores a list-valued field. With wrapper-as-array-name the
// innermost wrapper element names the array directly.
func (e *jsonEncoder) placeCollection(obj *jsonObject, fi *fieldInfo, items any) error {
	parents, name := fi.parents, fi.name
	if e.settings.wrapperAsArrayName && len(parents) > 0 {
		name = parents[len(parents)-1]
		parents = parents[:len(parents)-1]
	}

	target, err := obj.descend(parents)
	if err != nil {
		return err
	}

	return target.put(name, items)
}

func isCollection(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return v.Type().Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

func marshalText(v reflect.Value) (string, bool, error) {
	if !v.CanInterface() {
		return "", false, nil
	}

	if tm, ok := v.Interface().(encoding.TextMarshaler); ok {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return "", false, nil
		}

		b, err := tm.MarshalText()

		return string(b), true, err
	}

	if v.CanAddr() {
		if tm, ok := v.Addr().Interface().(encoding.TextMarshaler); ok {
			b, err := tm.MarshalText()
			return string(b), true, err
		}
	}

	return "", false, nil
}

func bytesOf(v reflect.Value) []byte {
	if v.Kind() == reflect.Slice {
		return v.Bytes()
	}

	b := make([]byte, v.Len())
	for i := range v.Len() {
		b[i] = byte(v.Index(i).Uint())
	}

	return b
}

func indirectValue(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}
