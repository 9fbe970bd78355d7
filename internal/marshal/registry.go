package marshal

import "reflect"

// TypeSet is an ordered collection of distinct types. Pointer types are
// stored as their element type.
type TypeSet struct {
	types []reflect.Type
	seen  map[reflect.Type]struct{}
}

// NewTypeSet creates a TypeSet holding types in the given order.
func NewTypeSet(types ...reflect.Type) *TypeSet {
	s := &TypeSet{seen: make(map[reflect.Type]struct{})}
	s.Add(types...)

	return s
}

// Add appends the types not already present. Nil types are ignored.
func (s *TypeSet) Add(types ...reflect.Type) {
	for _, t := range types {
		t = indirectType(t)
		if t == nil {
			continue
		}

		if _, ok := s.seen[t]; ok {
			continue
		}

		s.seen[t] = struct{}{}
		s.types = append(s.types, t)
	}
}

// Contains reports whether t (or its element type when t is a pointer) is present.
func (s *TypeSet) Contains(t reflect.Type) bool {
	_, ok := s.seen[indirectType(t)]
	return ok
}

// Len returns the number of types.
func (s *TypeSet) Len() int {
	return len(s.types)
}

// Types returns a copy of the types in insertion order.
func (s *TypeSet) Types() []reflect.Type {
	return append([]reflect.Type(nil), s.types...)
}

// Union returns a new set with the types of s followed by the missing types of other.
func (s *TypeSet) Union(other ...reflect.Type) *TypeSet {
	u := NewTypeSet(s.types...)
	u.Add(other...)

	return u
}

// TypesOf returns the dynamic types of objs. The scan is shallow: only the
// objects themselves are inspected, not the values they reference.
func TypesOf(objs ...any) []reflect.Type {
	out := make([]reflect.Type, 0, len(objs))
	for _, o := range objs {
		if o == nil {
			continue
		}

		out = append(out, indirectType(reflect.TypeOf(o)))
	}

	return out
}

// TypeFor is shorthand for reflect.TypeFor, for use with WithTypes.
func TypeFor[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}
