//go:build cgo

package persistence

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindkit/examples/preferences"
	"bindkit/internal/directory"
)

func TestSQLite_CreateSchemaAndBind(t *testing.T) {
	ctx := context.Background()
	u := Unit{
		Name:         "preferences",
		Driver:       "sqlite3",
		DataSource:   "file:" + filepath.Join(t.TempDir(), "prefs.db"),
		ManagedTypes: []string{"preferences.Person"},
	}

	db, err := Open(ctx, u)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tables, err := u.Tables(preferences.Catalog())
	require.NoError(t, err)
	require.NoError(t, CreateSchema(ctx, db, tables...))
	// idempotent
	require.NoError(t, CreateSchema(ctx, db, tables...))

	for _, p := range preferences.Sample().People {
		_, err := db.ExecContext(ctx, `INSERT INTO "person" ("name", "age", "beverage") VALUES (?, ?, ?)`, p.Name, p.Age, p.Beverage)
		require.NoError(t, err)
	}

	dir := directory.New()
	_, err = Bind(dir, u, db)
	require.NoError(t, err)

	found, err := Lookup(dir, "preferences")
	require.NoError(t, err)

	var count int
	require.NoError(t, found.QueryRowContext(ctx, `SELECT COUNT(*) FROM "person" WHERE "beverage" = ?`, "Avenyn Ale").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSQLite_CreateSchemaRollsBack(t *testing.T) {
	ctx := context.Background()
	u := Unit{Name: "broken", Driver: "sqlite3", DataSource: "file:" + filepath.Join(t.TempDir(), "broken.db")}

	db, err := Open(ctx, u)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ok := Table{Name: "ok", Columns: []Column{{Name: "id", Type: "INTEGER"}}}
	bad := Table{Schema: "nosuchschema", Name: "bad", Columns: []Column{{Name: "id", Type: "INTEGER"}}}

	require.Error(t, CreateSchema(ctx, db, ok, bad))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE name = 'ok'`).Scan(&n))
	assert.Zero(t, n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Unit{Name: "x", Driver: "nope", DataSource: "x"})
	assert.Error(t, err)
}
