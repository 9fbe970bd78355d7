// Package naming maps logical identifiers (catalogs, schemas, tables,
// sequences and columns) to physical database names.
//
// A PhysicalNamingStrategy holds one Transform per identifier kind. Quoted
// identifiers are never transformed.
package naming
