// Package persistence describes persistence units and derives relational
// tables from Go struct types.
//
// A unit names a database driver and data source, the managed types to map
// and the naming strategy for physical identifiers. Opened databases are
// published in a directory.Context under "jdbc/<unit>".
package persistence
