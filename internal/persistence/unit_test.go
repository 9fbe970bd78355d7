package persistence

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindkit/examples/preferences"
	"bindkit/internal/directory"
	"bindkit/internal/naming"
	"bindkit/internal/semver"
)

func TestLoadFile(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "units.yaml"))
	require.NoError(t, err)

	assert.Equal(t, semver.MustNew(1, 2, 0, ""), f.Version)
	require.Len(t, f.Units, 2)

	u, ok := f.Unit("preferences")
	require.True(t, ok)
	assert.Equal(t, "sqlite3", u.Driver)
	assert.Equal(t, []string{"preferences.Person"}, u.ManagedTypes)
	assert.Equal(t, "wal", u.Properties["journal_mode"])

	_, ok = f.Unit("missing")
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing driver", "units: [{name: a, dataSource: x}]"},
		{"missing name", "units: [{driver: d, dataSource: x}]"},
		{"duplicate", "units: [{name: a, driver: d, dataSource: x}, {name: a, driver: d, dataSource: y}]"},
		{"bad transform", "units: [{name: a, driver: d, dataSource: x, naming: {table: kebab}}]"},
		{"bad locale", "units: [{name: a, driver: d, dataSource: x, naming: {locale: '!!'}}]"},
		{"bad version", "version: x.y\nunits: []"},
		{"malformed", "units: ["},
		{"unquoted trailing colon", "units:\n  - name: a\n    driver: d\n    dataSource: file::memory:\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_InMemoryDataSource(t *testing.T) {
	f, err := Parse([]byte("units:\n  - name: a\n    driver: sqlite3\n    dataSource: \"file::memory:\"\n"))
	require.NoError(t, err)

	u, ok := f.Unit("a")
	require.True(t, ok)
	assert.Equal(t, "file::memory:", u.DataSource)
}

func TestUnit_NamingStrategy(t *testing.T) {
	u := Unit{Naming: NamingConfig{Locale: "tr", Column: "snake"}}

	s, err := u.NamingStrategy()
	require.NoError(t, err)
	assert.Equal(t, "ıd", s.TableName(naming.Identifier{Text: "ID"}).Text)
	assert.Equal(t, "order_ıd", s.ColumnName(naming.Identifier{Text: "OrderID"}).Text)
}

type orderLine struct {
	OrderID  int64 `db:"id,pk"`
	LineNo   int   `db:",pk"`
	SKU      string
	Price    float64
	Shipped  *time.Time
	Gift     bool
	Payload  []byte
	Notes    []string
	Internal string `db:"-"`
	unmapped string
}

func TestDescribeTable(t *testing.T) {
	s := naming.NewPhysicalNamingStrategy(naming.WithAll(naming.Chain(naming.CamelToSnake)))

	table, err := DescribeTable(s, "Sales", reflect.TypeFor[*orderLine]())
	require.NoError(t, err)

	assert.Equal(t, "sales", table.Schema)
	assert.Equal(t, "order_line", table.Name)
	assert.Equal(t, []string{"Notes"}, table.Skipped)
	assert.Equal(t, []Column{
		{Name: "id", Type: "INTEGER", PrimaryKey: true},
		{Name: "line_no", Type: "INTEGER", PrimaryKey: true},
		{Name: "sku", Type: "TEXT"},
		{Name: "price", Type: "REAL"},
		{Name: "shipped", Type: "TIMESTAMP", Nullable: true},
		{Name: "gift", Type: "INTEGER"},
		{Name: "payload", Type: "BLOB", Nullable: true},
	}, table.Columns)

	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "sales"."order_line" (`+
			`"id" INTEGER NOT NULL, "line_no" INTEGER NOT NULL, "sku" TEXT NOT NULL, "price" REAL NOT NULL, `+
			`"shipped" TIMESTAMP, "gift" INTEGER NOT NULL, "payload" BLOB, PRIMARY KEY ("id", "line_no"))`,
		table.CreateSQL())
}

func TestDescribeTable_Errors(t *testing.T) {
	s := naming.NewPhysicalNamingStrategy()

	_, err := DescribeTable(s, "", reflect.TypeFor[string]())
	assert.Error(t, err)

	type nothing struct {
		Items []struct{}
	}

	_, err = DescribeTable(s, "", reflect.TypeFor[nothing]())
	assert.Error(t, err)
}

func TestUnit_Tables(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "units.yaml"))
	require.NoError(t, err)

	u, _ := f.Unit("preferences")

	tables, err := u.Tables(preferences.Catalog())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "main"."person" ("name" TEXT NOT NULL, "age" INTEGER NOT NULL, "beverage" TEXT NOT NULL, PRIMARY KEY ("name"))`,
		tables[0].CreateSQL())

	u.ManagedTypes = append(u.ManagedTypes, "preferences.Persons")
	_, err = u.Tables(preferences.Catalog())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean preferences.Person?")
}

func TestBind_Duplicate(t *testing.T) {
	dir := directory.New()
	u := Unit{Name: "orders"}

	name, err := Bind(dir, u, nil)
	require.NoError(t, err)
	assert.Equal(t, "jdbc/orders", name)

	_, err = Bind(dir, u, nil)
	require.ErrorIs(t, err, directory.ErrAlreadyBound)
}
