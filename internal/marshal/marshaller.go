package marshal

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bindkit/internal/common"
	"bindkit/internal/metrics"
)

// Marshaller marshals values to, and unmarshals them from, XML or JSON text
// through a single provider. Its type registry, namespace prefixes and
// properties are fixed at construction.
type Marshaller struct {
	provider   Provider
	types      *TypeSet
	resolver   *NamespacePrefixResolver
	properties Properties
	logger     zerolog.Logger
	metrics    *metrics.Collector
}

// Option configures a Marshaller.
type Option func(*Marshaller)

// WithTypes registers types known to every context in addition to the ones
// inferred from the values of a call.
func WithTypes(types ...reflect.Type) Option {
	return func(m *Marshaller) {
		m.types.Add(types...)
	}
}

// WithResolver replaces the namespace prefix resolver.
func WithResolver(r *NamespacePrefixResolver) Option {
	return func(m *Marshaller) {
		if r != nil {
			m.resolver = r
		}
	}
}

// WithNamespace registers a preferred prefix for a namespace URI.
func WithNamespace(uri, prefix string) Option {
	return func(m *Marshaller) {
		m.resolver.Put(uri, prefix)
	}
}

// WithProperty sets one provider property.
func WithProperty(key string, value any) Option {
	return func(m *Marshaller) {
		m.properties[key] = value
	}
}

// WithProperties merges provider properties.
func WithProperties(props Properties) Option {
	return func(m *Marshaller) {
		for k, v := range props {
			m.properties[k] = v
		}
	}
}

// WithLogger sets the logger used for context creation diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Marshaller) {
		m.logger = l
	}
}

// WithMetrics records every operation in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Marshaller) {
		m.metrics = c
	}
}

// New creates a Marshaller backed by provider.
func New(provider Provider, opts ...Option) *Marshaller {
	m := &Marshaller{
		provider:   provider,
		types:      NewTypeSet(),
		resolver:   NewNamespacePrefixResolver(),
		properties: Properties{},
		logger:     log.Logger.With().Str("component", "marshal").Logger(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// NewExtended creates a Marshaller backed by the XML and JSON provider.
func NewExtended(opts ...Option) *Marshaller {
	return New(Extended(), opts...)
}

// NewReference creates a Marshaller backed by the XML-only provider.
func NewReference(opts ...Option) *Marshaller {
	return New(Reference(), opts...)
}

// Provider returns the provider kind.
func (m *Marshaller) Provider() ProviderKind {
	return m.provider.Kind()
}

// Resolver returns the namespace prefix resolver.
func (m *Marshaller) Resolver() *NamespacePrefixResolver {
	return m.resolver
}

// Types returns the registered types.
func (m *Marshaller) Types() []reflect.Type {
	return m.types.Types()
}

// Properties returns a copy of the provider properties.
func (m *Marshaller) Properties() Properties {
	return m.properties.Clone()
}

// Marshal renders objs as one document in format.
func (m *Marshaller) Marshal(format Format, objs ...any) (string, error) {
	var buf bytes.Buffer
	if err := m.MarshalTo(&buf, format, objs...); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// MarshalTo writes objs to w as one document in format. Nothing is written
// when an error is returned.
func (m *Marshaller) MarshalTo(w io.Writer, format Format, objs ...any) (err error) {
	inferred := TypesOf(objs...)

	// a multi-type document has no single subject for errors
	subject, _ := common.Only(inferred)

	start := time.Now()
	defer func() {
		m.observe(opMarshal, format, start, err)
	}()

	if len(inferred) == 0 {
		return newError(opMarshal, format, m.Provider(), subject,
			fmt.Errorf("%w: nothing to marshal", ErrInvalidArgument))
	}

	if !m.provider.Supports(format) {
		return newError(opMarshal, format, m.Provider(), subject, unsupportedFormat(m.Provider(), format))
	}

	ctx, err := m.newContext(inferred)
	if err != nil {
		return newError(opMarshal, format, m.Provider(), subject, err)
	}

	var buf bytes.Buffer
	if err := ctx.Marshal(&buf, format, objs...); err != nil {
		return newError(opMarshal, format, m.Provider(), subject, err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return newError(opMarshal, format, m.Provider(), subject, err)
	}

	return nil
}

// Unmarshal parses text in format into the value target points to. The
// target is only written when parsing succeeds.
func (m *Marshaller) Unmarshal(format Format, text string, target any) (err error) {
	var subject reflect.Type
	if target != nil {
		subject = indirectType(reflect.TypeOf(target))
	}

	start := time.Now()
	defer func() {
		m.observe(opUnmarshal, format, start, err)
	}()

	if !m.provider.Supports(format) {
		return newError(opUnmarshal, format, m.Provider(), subject, unsupportedFormat(m.Provider(), format))
	}

	ctx, err := m.newContext(TypesOf(target))
	if err != nil {
		return newError(opUnmarshal, format, m.Provider(), subject, err)
	}

	if err := ctx.Unmarshal([]byte(text), format, target); err != nil {
		return newError(opUnmarshal, format, m.Provider(), subject, err)
	}

	return nil
}

// UnmarshalRoot parses an XML document into a new instance of the registered
// type bound to its root element.
func (m *Marshaller) UnmarshalRoot(text string) (result any, err error) {
	start := time.Now()
	defer func() {
		m.observe(opUnmarshal, XML, start, err)
	}()

	ctx, err := m.newContext(nil)
	if err != nil {
		return nil, newError(opUnmarshal, XML, m.Provider(), nil, err)
	}

	result, err = ctx.UnmarshalRoot([]byte(text))
	if err != nil {
		return nil, newError(opUnmarshal, XML, m.Provider(), nil, err)
	}

	return result, nil
}

// Unmarshal parses text in format into a new T. The zero T is returned with
// any error.
func Unmarshal[T any](m *Marshaller, format Format, text string) (T, error) {
	var out T
	if err := m.Unmarshal(format, text, &out); err != nil {
		var zero T
		return zero, err
	}

	return out, nil
}

// newContext builds a context for the registry plus the inferred types.
func (m *Marshaller) newContext(inferred []reflect.Type) (*Context, error) {
	known := m.types.Union(inferred...)

	ctx, err := m.provider.NewContext(known.Types(), m.properties, m.resolver)
	if err != nil {
		m.logger.Debug().Err(err).Str("provider", m.Provider().String()).Msg("context creation failed")
		return nil, err
	}

	m.logger.Trace().
		Str("provider", m.Provider().String()).
		Str("types", typeNames(known.Types())).
		Msg("binding context created")

	return ctx, nil
}

func (m *Marshaller) observe(op string, format Format, start time.Time, err error) {
	m.metrics.Observe(op, m.Provider().String(), format.String(), time.Since(start), err)
}

func typeNames(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}

	return strings.Join(names, ",")
}
