// Package books reads the book catalog. The catalog is read-only from the
// application's point of view.
package books

import (
	"context"

	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

// Repository lists and fetches catalog records. GetByID returns
// common.ErrorNotFound when no book has the given id.
type Repository interface {
	List(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
}
