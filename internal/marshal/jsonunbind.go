package marshal

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"

	"github.com/goccy/go-json"
)

type jsonDecoder struct {
	settings jsonSettings
}

// unmarshalJSON parses data into the value target points to.
func (d *jsonDecoder) unmarshalJSON(data []byte, target reflect.Value) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}

		return fmt.Errorf("malformed json: %w", err)
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errors.New("malformed json: trailing data after document")
	}

	elem := target.Elem()
	at := newPath(elem.Type().Name())

	if d.settings.includeRoot && indirectType(elem.Type()).Kind() == reflect.Struct {
		ti, err := getTypeInfo(indirectType(elem.Type()))
		if err != nil {
			return err
		}

		name := ti.rootName().Local

		m, ok := raw.(map[string]any)
		if !ok {
			return d.mismatch(at, raw, elem.Type())
		}

		inner, ok := m[name]
		if !ok {
			return fmt.Errorf("%s: missing root key %q", at, name)
		}

		raw = inner
	}

	return d.decodeValue(elem, raw, at)
}

func (d *jsonDecoder) decodeValue(v reflect.Value, raw any, at *path) error {
	if raw == nil {
		return nil
	}

	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}

		return d.decodeValue(v.Elem(), raw, at)
	}

	if ok, err := d.unmarshalText(v, raw, at); ok {
		return err
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return fmt.Errorf("%s: cannot bind into non-empty interface %s", at, v.Type())
		}

		v.Set(reflect.ValueOf(raw))

		return nil

	case reflect.String:
		s, err := d.scalarText(raw, v.Type(), at)
		if err != nil {
			return err
		}

		v.SetString(s)

		return nil

	case reflect.Bool:
		switch tv := raw.(type) {
		case bool:
			v.SetBool(tv)
			return nil
		case string:
			b, err := strconv.ParseBool(tv)
			if err != nil {
				return fmt.Errorf("%s: %w", at, err)
			}

			v.SetBool(b)

			return nil
		default:
			return d.mismatch(at, raw, v.Type())
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s, err := d.numberText(raw, v.Type(), at)
		if err != nil {
			return err
		}

		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("%s: %w", at, err)
		}

		v.SetInt(n)

		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		s, err := d.numberText(raw, v.Type(), at)
		if err != nil {
			return err
		}

		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("%s: %w", at, err)
		}

		v.SetUint(n)

		return nil

	case reflect.Float32, reflect.Float64:
		s, err := d.numberText(raw, v.Type(), at)
		if err != nil {
			return err
		}

		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("%s: %w", at, err)
		}

		v.SetFloat(f)

		return nil

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			s, err := d.scalarText(raw, v.Type(), at)
			if err != nil {
				return err
			}

			v.SetBytes([]byte(s))

			return nil
		}

		items := asItems(raw)
		out := reflect.MakeSlice(v.Type(), len(items), len(items))

		for i, item := range items {
			if err := d.decodeValue(out.Index(i), item, at.index(i)); err != nil {
				return err
			}
		}

		v.Set(out)

		return nil

	case reflect.Array:
		items := asItems(raw)
		if len(items) > v.Len() {
			return fmt.Errorf("%s: %d items do not fit into %s", at, len(items), v.Type())
		}

		for i, item := range items {
			if err := d.decodeValue(v.Index(i), item, at.index(i)); err != nil {
				return err
			}
		}

		return nil

	case reflect.Struct:
		m, ok := raw.(map[string]any)
		if !ok {
			return d.mismatch(at, raw, v.Type())
		}

		return d.decodeStruct(v, m, at)

	default:
		return fmt.Errorf("%s: %s values cannot be bound", at, v.Type())
	}
}

func (d *jsonDecoder) decodeStruct(v reflect.Value, m map[string]any, at *path) error {
	ti, err := getTypeInfo(v.Type())
	if err != nil {
		return err
	}

	for i := range ti.fields {
		fi := &ti.fields[i]

		var (
			raw   any
			found bool
		)

		switch fi.kind {
		case fieldSkipped:
			continue
		case fieldCharData:
			raw, found = m[d.settings.valueWrapper]
		default:
			keys := append(append([]string{}, fi.parents...), fi.name)
			if d.settings.wrapperAsArrayName && len(fi.parents) > 0 && isCollectionType(fi.typ) {
				keys = fi.parents
			}

			raw, found = lookup(m, keys)
		}

		if !found {
			continue
		}

		fv, err := fieldByIndexAlloc(v, fi.index)
		if err != nil {
			return fmt.Errorf("%s: %w", at.field(fi.goName), err)
		}

		if err := d.decodeValue(fv, raw, at.field(fi.goName)); err != nil {
			return err
		}
	}

	return nil
}

func (d *jsonDecoder) unmarshalText(v reflect.Value, raw any, at *path) (bool, error) {
	if !v.CanAddr() {
		return false, nil
	}

	tu, ok := v.Addr().Interface().(encoding.TextUnmarshaler)
	if !ok {
		return false, nil
	}

	s, err := d.scalarText(raw, v.Type(), at)
	if err != nil {
		return true, err
	}

	if err := tu.UnmarshalText([]byte(s)); err != nil {
		return true, fmt.Errorf("%s: %w", at, err)
	}

	return true, nil
}

func (d *jsonDecoder) scalarText(raw any, t reflect.Type, at *path) (string, error) {
	switch tv := raw.(type) {
	case string:
		return tv, nil
	case json.Number:
		return string(tv), nil
	case bool:
		return strconv.FormatBool(tv), nil
	default:
		return "", d.mismatch(at, raw, t)
	}
}

func (d *jsonDecoder) numberText(raw any, t reflect.Type, at *path) (string, error) {
	switch tv := raw.(type) {
	case json.Number:
		return string(tv), nil
	case string:
		return tv, nil
	default:
		return "", d.mismatch(at, raw, t)
	}
}

func (d *jsonDecoder) mismatch(at *path, raw any, t reflect.Type) error {
	return fmt.Errorf("%s: cannot bind JSON %s to %s", at, jsonKind(raw), t)
}

func jsonKind(raw any) string {
	switch raw.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", raw)
	}
}

// asItems accepts a single value where a list is expected.
func asItems(raw any) []any {
	if items, ok := raw.([]any); ok {
		return items
	}

	return []any{raw}
}

func lookup(m map[string]any, keys []string) (any, bool) {
	var cur any = m

	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		cur, ok = obj[k]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

func isCollectionType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

// fieldByIndexAlloc walks index from v, allocating nil embedded pointers.
func fieldByIndexAlloc(v reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("cannot allocate embedded %s", v.Type())
				}

				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v, nil
}
