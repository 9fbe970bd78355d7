package naming

import (
	"golang.org/x/text/language"
)

// PhysicalNamingStrategy converts logical identifiers to physical ones.
// The zero value is not usable; build one with NewPhysicalNamingStrategy.
type PhysicalNamingStrategy struct {
	transforms map[Kind]Transform
}

// Option configures a PhysicalNamingStrategy.
type Option func(*PhysicalNamingStrategy)

// WithLocale replaces every transform with locale aware lowercasing for tag.
func WithLocale(tag language.Tag) Option {
	return WithAll(Lowercase(tag))
}

// WithTransform sets the transform of one identifier kind.
func WithTransform(kind Kind, t Transform) Option {
	return func(s *PhysicalNamingStrategy) {
		s.transforms[kind] = t
	}
}

// WithAll sets the same transform for every identifier kind.
func WithAll(t Transform) Option {
	return func(s *PhysicalNamingStrategy) {
		for _, k := range Kinds() {
			s.transforms[k] = t
		}
	}
}

// NewPhysicalNamingStrategy returns a strategy that lowercases every kind
// under language.Und, then applies opts.
func NewPhysicalNamingStrategy(opts ...Option) *PhysicalNamingStrategy {
	s := &PhysicalNamingStrategy{transforms: make(map[Kind]Transform, len(kindNames))}
	WithLocale(language.Und)(s)

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Apply converts id according to the transform of kind.
func (s *PhysicalNamingStrategy) Apply(kind Kind, id Identifier) Identifier {
	if id.IsEmpty() || id.Quoted {
		return id
	}

	t := s.transforms[kind]
	if t == nil {
		return id
	}

	return Identifier{Text: t(id.Text)}
}

// CatalogName converts a catalog identifier.
func (s *PhysicalNamingStrategy) CatalogName(id Identifier) Identifier {
	return s.Apply(Catalog, id)
}

// SchemaName converts a schema identifier.
func (s *PhysicalNamingStrategy) SchemaName(id Identifier) Identifier {
	return s.Apply(Schema, id)
}

// TableName converts a table identifier.
func (s *PhysicalNamingStrategy) TableName(id Identifier) Identifier {
	return s.Apply(Table, id)
}

// SequenceName converts a sequence identifier.
func (s *PhysicalNamingStrategy) SequenceName(id Identifier) Identifier {
	return s.Apply(Sequence, id)
}

// ColumnName converts a column identifier.
func (s *PhysicalNamingStrategy) ColumnName(id Identifier) Identifier {
	return s.Apply(Column, id)
}
