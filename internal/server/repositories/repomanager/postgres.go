// Package repomanager provides the concrete RepositoryManager, wiring
// together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/migrations"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/entries"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/users"
)

// SQLRepositoryManager vends database/sql repository implementations for a
// given driver and exposes a schema migration hook.
type SQLRepositoryManager struct {
	driver  string
	catalog books.Repository
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

// Books returns the catalog repository. The catalog is read-only, so an
// override set with WithCatalog is shared across every DBTX.
func (m *SQLRepositoryManager) Books(db dbx.DBTX) books.Repository {
	if m.catalog != nil {
		return m.catalog
	}
	return books.NewSQLRepository(db)
}

// Entries returns an entries.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewSQLRepository(db)
}

// WithCatalog sets the catalog repository returned by Books.
func (m *SQLRepositoryManager) WithCatalog(r books.Repository) *SQLRepositoryManager {
	m.catalog = r
	return m
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// RunMigrations applies the embedded migrations for the manager's driver.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := migrateUp(ctx, db, m.driver); err != nil {
		return err
	}
	return nil
}

// NewSQLRepositoryManager constructs a RepositoryManager for driver
// ("pgx" or "sqlite").
func NewSQLRepositoryManager(driver string) *SQLRepositoryManager {
	return &SQLRepositoryManager{driver: driver}
}
