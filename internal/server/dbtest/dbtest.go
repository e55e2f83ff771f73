// Package dbtest opens migrated in-memory sqlite databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/migrations"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// DSN returns a shared-cache in-memory sqlite DSN unique to name, with
// foreign keys enforced and times stored in sqlite's native text format.
func DSN(name string) string {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite", name)
}

// Open returns a migrated database private to t, closed on cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := dbx.Open(ctx, dbx.DriverSQLite, DSN(t.Name()), dbx.DefaultPoolOptions)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(ctx, db, dbx.DriverSQLite))
	return db
}

// InsertBook stores b in the catalog, filling ID and timestamps when unset.
func InsertBook(t *testing.T, db dbx.DBTX, b *models.Book) *models.Book {
	t.Helper()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO books (id, title, author, description, cover_image, genre, published_year, isbn, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.Title, b.Author, b.Description, b.CoverImage, b.Genre, b.PublishedYear, b.ISBN, b.CreatedAt, b.UpdatedAt)
	require.NoError(t, err)
	return b
}
