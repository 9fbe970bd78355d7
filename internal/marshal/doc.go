// Package marshal renders Go values as XML or JSON documents and parses them
// back, through one of two interchangeable providers.
//
// Both providers bind through the standard `xml` struct tags. The extended
// provider additionally derives a JSON representation from those same tags,
// so one set of annotations describes both formats. The reference provider
// supports XML only and rejects JSON requests with ErrUnsupportedFormat.
//
// # Key types
//
//   - Format: XML or JSON
//   - Provider: builds a Context for a set of known types
//   - Marshaller: the caller-facing entry point holding the type registry,
//     namespace prefixes and provider properties
//   - NamespacePrefixResolver: preferred prefixes for namespace URIs
//
// # Example
//
//	m := marshal.New(marshal.Extended(),
//		marshal.WithNamespace("http://bindkit.example/preferences", "prefs"),
//		marshal.WithProperty(marshal.PropertyFormattedOutput, true),
//	)
//
//	text, err := m.Marshal(marshal.XML, prefs)
//	...
//	back, err := marshal.Unmarshal[preferences.Preferences](m, marshal.XML, text)
//
// The provider is chosen per Marshaller. No process-wide state selects it,
// so marshallers backed by different providers can be used concurrently.
package marshal
