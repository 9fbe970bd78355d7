package marshal

import (
	"sort"
	"sync"
)

// NamespacePrefixResolver maps namespace URIs to preferred XML prefixes and back.
// A Put overwrites any earlier mapping of the URI and of the prefix.
type NamespacePrefixResolver struct {
	mu       sync.RWMutex
	prefixes map[string]string // uri -> prefix
	uris     map[string]string // prefix -> uri
}

// NewNamespacePrefixResolver creates an empty resolver.
func NewNamespacePrefixResolver() *NamespacePrefixResolver {
	return &NamespacePrefixResolver{
		prefixes: make(map[string]string),
		uris:     make(map[string]string),
	}
}

// Put registers prefix as the preferred prefix of uri. The empty prefix
// selects the default namespace.
func (r *NamespacePrefixResolver) Put(uri, prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.prefixes[uri]; ok {
		delete(r.uris, old)
	}

	if old, ok := r.uris[prefix]; ok {
		delete(r.prefixes, old)
	}

	r.prefixes[uri] = prefix
	r.uris[prefix] = uri
}

// XMLPrefix returns the prefix registered for uri.
func (r *NamespacePrefixResolver) XMLPrefix(uri string) (string, bool) {
	if r == nil {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.prefixes[uri]

	return p, ok
}

// NamespaceURI returns the namespace URI registered for prefix.
func (r *NamespacePrefixResolver) NamespaceURI(prefix string) (string, bool) {
	if r == nil {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.uris[prefix]

	return u, ok
}

// Len returns the number of registered mappings.
func (r *NamespacePrefixResolver) Len() int {
	if r == nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.prefixes)
}

// NamespaceMapping is one URI/prefix pair.
type NamespaceMapping struct {
	URI    string
	Prefix string
}

// Mappings returns a copy of all mappings sorted by URI.
func (r *NamespacePrefixResolver) Mappings() []NamespaceMapping {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]NamespaceMapping, 0, len(r.prefixes))
	for uri, prefix := range r.prefixes {
		out = append(out, NamespaceMapping{URI: uri, Prefix: prefix})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })

	return out
}
