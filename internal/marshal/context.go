package marshal

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"reflect"
)

// Context is a provider-built binding context for a fixed set of known types.
type Context struct {
	provider ProviderKind
	types    []reflect.Type
	roots    map[xml.Name]reflect.Type
	resolver *NamespacePrefixResolver
	xml      xmlSettings
	json     *jsonSettings // nil when the provider has no JSON binding
}

func newContext(
	provider ProviderKind,
	types []reflect.Type,
	resolver *NamespacePrefixResolver,
	xs xmlSettings,
	js *jsonSettings,
) (*Context, error) {
	c := &Context{
		provider: provider,
		types:    append([]reflect.Type(nil), types...),
		roots:    make(map[xml.Name]reflect.Type, len(types)),
		resolver: resolver,
		xml:      xs,
		json:     js,
	}

	for _, t := range c.types {
		ti, err := getTypeInfo(t)
		if err != nil {
			return nil, err
		}

		name := ti.rootName()
		if name.Local == "" {
			return nil, fmt.Errorf("type %s has no element name", t)
		}

		if other, ok := c.roots[name]; ok {
			return nil, fmt.Errorf("element %s is bound to both %s and %s", formatName(name), other, t)
		}

		c.roots[name] = t
	}

	return c, nil
}

// KnownTypes returns the types the context was built for.
func (c *Context) KnownTypes() []reflect.Type {
	return append([]reflect.Type(nil), c.types...)
}

// Supports reports whether the context can handle format.
func (c *Context) Supports(format Format) bool {
	switch format {
	case XML:
		return true
	case JSON:
		return c.json != nil
	default:
		return false
	}
}

// Marshal writes objs to w as one document.
func (c *Context) Marshal(w io.Writer, format Format, objs ...any) error {
	if !c.Supports(format) {
		return unsupportedFormat(c.provider, format)
	}

	if format == JSON {
		enc := jsonEncoder{settings: *c.json}
		return enc.marshalJSON(w, objs)
	}

	roots := make([][]byte, 0, len(objs))
	for _, obj := range objs {
		raw, err := xml.Marshal(obj)
		if err != nil {
			return err
		}

		roots = append(roots, raw)
	}

	return writeXMLDocument(w, roots, c.xml, c.resolver)
}

// Unmarshal parses data into the value target points to.
func (c *Context) Unmarshal(data []byte, format Format, target any) error {
	if !c.Supports(format) {
		return unsupportedFormat(c.provider, format)
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer, got %T", ErrInvalidArgument, target)
	}

	// decode into a fresh value so a failure leaves target untouched
	fresh := reflect.New(rv.Type().Elem())

	if format == JSON {
		dec := jsonDecoder{settings: *c.json}
		if err := dec.unmarshalJSON(data, fresh); err != nil {
			return err
		}
	} else if err := xml.NewDecoder(bytes.NewReader(data)).Decode(fresh.Interface()); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}

		return err
	}

	rv.Elem().Set(fresh.Elem())

	return nil
}

// UnmarshalRoot parses an XML document into a new instance of the known type
// bound to its root element and returns a pointer to it.
func (c *Context) UnmarshalRoot(data []byte) (any, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}

		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		t, ok := c.typeForElement(start.Name)
		if !ok {
			return nil, fmt.Errorf("no known type is bound to element %s", formatName(start.Name))
		}

		v := reflect.New(t)
		if err := dec.DecodeElement(v.Interface(), &start); err != nil {
			return nil, err
		}

		return v.Interface(), nil
	}
}

// typeForElement returns the known type bound to the element name.
func (c *Context) typeForElement(name xml.Name) (reflect.Type, bool) {
	if t, ok := c.roots[name]; ok {
		return t, true
	}

	// types declared without a namespace match any namespace
	t, ok := c.roots[xml.Name{Local: name.Local}]

	return t, ok
}

func formatName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}

	return "{" + n.Space + "}" + n.Local
}
