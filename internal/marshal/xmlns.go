package marshal

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// prefixPolicy is the provider-specific way of naming namespaces that have
// no registered prefix.
type prefixPolicy struct {
	// defaultRootNamespace renders an unmapped root namespace as the default namespace.
	defaultRootNamespace bool
	// firstGenerated is the number used for the first generated nsN prefix.
	firstGenerated int
}

// xmlSettings control XML rendering of a Context.
type xmlSettings struct {
	formatted bool
	fragment  bool
	prefixes  prefixPolicy
}

type nsDecl struct {
	prefix string
	uri    string
}

// prefixAssigner hands out prefixes for one document.
type prefixAssigner struct {
	resolver *NamespacePrefixResolver
	policy   prefixPolicy
	elements map[string]string // uri -> prefix used for elements
	attrs    map[string]string // uri -> prefix used for attributes when the element prefix is empty
	used     map[string]bool
	next     int
}

func newPrefixAssigner(resolver *NamespacePrefixResolver, policy prefixPolicy) *prefixAssigner {
	return &prefixAssigner{
		resolver: resolver,
		policy:   policy,
		elements: make(map[string]string),
		attrs:    make(map[string]string),
		used:     make(map[string]bool),
		next:     policy.firstGenerated,
	}
}

func (a *prefixAssigner) elementPrefix(uri, rootNS string) string {
	if p, ok := a.elements[uri]; ok {
		return p
	}

	p, ok := a.resolver.XMLPrefix(uri)
	if !ok || a.used[p] {
		if a.policy.defaultRootNamespace && uri == rootNS && !a.used[""] {
			p = ""
		} else {
			p = a.generate()
		}
	}

	a.elements[uri] = p
	a.used[p] = true

	return p
}

func (a *prefixAssigner) attrPrefix(uri, rootNS string) string {
	p := a.elementPrefix(uri, rootNS)
	if p != "" {
		return p
	}

	if p, ok := a.attrs[uri]; ok {
		return p
	}

	p = a.generate()
	a.attrs[uri] = p
	a.used[p] = true

	return p
}

// generate returns the next nsN prefix that is neither used in this document
// nor registered for another namespace.
func (a *prefixAssigner) generate() string {
	for {
		p := "ns" + strconv.Itoa(a.next)
		a.next++

		if a.used[p] {
			continue
		}

		if _, taken := a.resolver.NamespaceURI(p); taken {
			continue
		}

		return p
	}
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}

	return prefix + ":" + local
}

// declName is the attribute name declaring prefix; the empty prefix
// declares the default namespace.
func declName(prefix string) string {
	if prefix == "" {
		return "xmlns"
	}

	return "xmlns:" + prefix
}

func isNamespaceDecl(attr xml.Attr) bool {
	return attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns")
}

// readTokens decodes a rendered element into resolved tokens. Namespace
// declarations stay in the attribute lists and are dropped on rewrite.
func readTokens(raw []byte) ([]xml.Token, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	var tokens []xml.Token

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return tokens, nil
		}

		if err != nil {
			return nil, fmt.Errorf("failed to re-read rendered xml: %w", err)
		}

		switch tok.(type) {
		case xml.StartElement, xml.EndElement, xml.CharData, xml.Comment:
			tokens = append(tokens, xml.CopyToken(tok))
		}
	}
}

// writeXMLDocument writes the rendered roots as one document, replacing the
// namespace declarations of encoding/xml with prefixed names. All
// declarations needed by a root are placed on that root.
func writeXMLDocument(w io.Writer, roots [][]byte, settings xmlSettings, resolver *NamespacePrefixResolver) error {
	assign := newPrefixAssigner(resolver, settings.prefixes)

	docs := make([][]xml.Token, 0, len(roots))
	decls := make([][]nsDecl, 0, len(roots))

	for _, raw := range roots {
		tokens, err := readTokens(raw)
		if err != nil {
			return err
		}

		docs = append(docs, tokens)
		decls = append(decls, collectDecls(tokens, assign))
	}

	if !settings.fragment {
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return err
		}
	}

	enc := xml.NewEncoder(w)
	if settings.formatted {
		enc.Indent("", "  ")
	}

	for i, tokens := range docs {
		if err := encodeRoot(enc, tokens, decls[i], assign); err != nil {
			return err
		}
	}

	return enc.Flush()
}

func collectDecls(tokens []xml.Token, assign *prefixAssigner) []nsDecl {
	var (
		rootNS string
		decls  []nsDecl
		seen   = make(map[string]bool)
	)

	add := func(prefix, uri string) {
		if seen[prefix] {
			return
		}

		seen[prefix] = true
		decls = append(decls, nsDecl{prefix: prefix, uri: uri})
	}

	for i, tok := range tokens {
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if i == 0 {
			rootNS = start.Name.Space
		}

		if start.Name.Space != "" {
			add(assign.elementPrefix(start.Name.Space, rootNS), start.Name.Space)
		}

		for _, attr := range start.Attr {
			if isNamespaceDecl(attr) || attr.Name.Space == "" {
				continue
			}

			add(assign.attrPrefix(attr.Name.Space, rootNS), attr.Name.Space)
		}
	}

	return decls
}

func encodeRoot(enc *xml.Encoder, tokens []xml.Token, decls []nsDecl, assign *prefixAssigner) error {
	var (
		stack  []xml.Name
		rootNS string
	)

	for i, tok := range tokens {
		switch t := tok.(type) {
		case xml.StartElement:
			if i == 0 {
				rootNS = t.Name.Space
			}

			out := xml.StartElement{Name: xml.Name{Local: t.Name.Local}}
			if t.Name.Space != "" {
				out.Name.Local = qualify(assign.elementPrefix(t.Name.Space, rootNS), t.Name.Local)
			}

			if i == 0 {
				for _, d := range decls {
					out.Attr = append(out.Attr, xml.Attr{Name: xml.Name{Local: declName(d.prefix)}, Value: d.uri})
				}
			}

			for _, attr := range t.Attr {
				if isNamespaceDecl(attr) {
					continue
				}

				name := attr.Name.Local
				if attr.Name.Space != "" {
					name = qualify(assign.attrPrefix(attr.Name.Space, rootNS), name)
				}

				out.Attr = append(out.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: attr.Value})
			}

			stack = append(stack, out.Name)

			if err := enc.EncodeToken(out); err != nil {
				return err
			}

		case xml.EndElement:
			if len(stack) == 0 {
				return fmt.Errorf("unbalanced end element %s", t.Name.Local)
			}

			name := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if err := enc.EncodeToken(xml.EndElement{Name: name}); err != nil {
				return err
			}

		default:
			if err := enc.EncodeToken(t); err != nil {
				return err
			}
		}
	}

	return nil
}
