package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"bindkit/internal/directory"
)

// DataSourcePrefix is the directory prefix of published databases.
const DataSourcePrefix = "jdbc/"

// Open opens the unit's database and verifies the connection. The driver
// must be registered by the caller, e.g. with a blank import.
func Open(ctx context.Context, u Unit) (*sql.DB, error) {
	db, err := sql.Open(u.Driver, u.DataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open unit %s: %w", u.Name, err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to connect unit %s: %w", u.Name, err), db.Close())
	}

	log.Debug().Str("unit", u.Name).Str("driver", u.Driver).Msg("persistence unit opened")

	return db, nil
}

// CreateSchema creates tables in a single transaction.
func CreateSchema(ctx context.Context, db *sql.DB, tables ...Table) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, t.CreateSQL()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.QualifiedName(), err)
		}

		log.Debug().Str("table", t.QualifiedName()).Msg("table created")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}

	return nil
}

// Bind publishes db under "jdbc/<unit>" and returns the bound name.
func Bind(dir *directory.Context, u Unit, db *sql.DB) (string, error) {
	name := DataSourcePrefix + u.Name
	if err := dir.Bind(name, db); err != nil {
		return "", fmt.Errorf("failed to publish unit %s: %w", u.Name, err)
	}

	return name, nil
}

// Lookup returns the database published for unit name.
func Lookup(dir *directory.Context, name string) (*sql.DB, error) {
	return directory.LookupAs[*sql.DB](dir, DataSourcePrefix+name)
}
