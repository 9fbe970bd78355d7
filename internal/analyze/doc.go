// Package analyze loads Go packages and indexes the types that can be bound
// to XML.
//
// It uses golang.org/x/tools/go/packages with go/types to build an
// in-memory type graph, then derives an Index from it:
//   - TypeID: package import path + type name
//   - TypeInfo: kind (struct/basic/alias/pointer/slice/map/external) and fields
//   - Entry: a bindable struct with its root element and namespaces
//
// The index is the static registry of known types; marshallers are built
// from it rather than from global state.
package analyze
