package persistence

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"bindkit/internal/naming"
)

// Table is the relational shape of a struct type.
type Table struct {
	Schema  string
	Name    string
	Columns []Column
	// Skipped lists fields with no column mapping, such as slices of structs.
	Skipped []string
}

// Column is one table column.
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
	Nullable   bool
}

var (
	timeType  = reflect.TypeFor[time.Time]()
	bytesType = reflect.TypeFor[[]byte]()
)

// DescribeTable maps the exported fields of struct type t to columns. A
// `db:"name,pk"` tag overrides the column name and marks primary keys,
// `db:"-"` skips the field. Names without a tag go through strategy.
func DescribeTable(strategy *naming.PhysicalNamingStrategy, schema string, t reflect.Type) (Table, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return Table{}, fmt.Errorf("type %s cannot be mapped to a table: not a struct", t)
	}

	table := Table{
		Schema: strategy.SchemaName(naming.ToIdentifier(schema)).String(),
		Name:   strategy.TableName(naming.Identifier{Text: t.Name()}).String(),
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tag := f.Tag.Get("db")
		if tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")

		sqlType, nullable, ok := sqlTypeOf(f.Type)
		if !ok {
			table.Skipped = append(table.Skipped, f.Name)
			continue
		}

		col := Column{Type: sqlType, Nullable: nullable, PrimaryKey: opts == "pk"}
		if name != "" {
			col.Name = name
		} else {
			col.Name = strategy.ColumnName(naming.Identifier{Text: f.Name}).String()
		}

		table.Columns = append(table.Columns, col)
	}

	if len(table.Columns) == 0 {
		return Table{}, fmt.Errorf("type %s has no mappable fields", t)
	}

	return table, nil
}

func sqlTypeOf(t reflect.Type) (string, bool, bool) {
	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}

	switch {
	case t == timeType:
		return "TIMESTAMP", nullable, true
	case t == bytesType:
		return "BLOB", true, true
	}

	switch t.Kind() {
	case reflect.String:
		return "TEXT", nullable, true
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return "INTEGER", nullable, true
	case reflect.Float32, reflect.Float64:
		return "REAL", nullable, true
	default:
		return "", false, false
	}
}

// QualifiedName returns the quoted, schema qualified table name.
func (t Table) QualifiedName() string {
	if t.Schema == "" {
		return quoteIdent(t.Name)
	}

	return quoteIdent(t.Schema) + "." + quoteIdent(t.Name)
}

// CreateSQL renders a CREATE TABLE IF NOT EXISTS statement for the table.
func (t Table) CreateSQL() string {
	var (
		b    strings.Builder
		keys []string
	)

	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(t.QualifiedName())
	b.WriteString(" (")

	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(quoteIdent(c.Name))
		b.WriteString(" ")
		b.WriteString(c.Type)

		if !c.Nullable {
			b.WriteString(" NOT NULL")
		}

		if c.PrimaryKey {
			keys = append(keys, quoteIdent(c.Name))
		}
	}

	if len(keys) > 0 {
		b.WriteString(", PRIMARY KEY (")
		b.WriteString(strings.Join(keys, ", "))
		b.WriteString(")")
	}

	b.WriteString(")")

	return b.String()
}

// quoteIdent wraps an identifier in double quotes unless it already is.
func quoteIdent(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s
	}

	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
