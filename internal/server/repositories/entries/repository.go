// Package entries persists per-user library membership: which catalog books
// a user has added, with reading status and rating.
package entries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

// Repository stores library entries keyed by (user, book).
//
// Create returns common.ErrAlreadyExists when the pair is already present
// and common.ErrorNotFound when the book or user does not exist. Get and
// the updates return common.ErrorNotFound when no entry matches.
type Repository interface {
	Create(ctx context.Context, entry *models.LibraryEntry) error
	Get(ctx context.Context, userID, bookID string) (*models.LibraryEntry, error)
	ListByUser(ctx context.Context, userID string) ([]models.LibraryEntry, error)
	UpdateStatus(ctx context.Context, userID, bookID string, status models.Status, finished *time.Time) error
	UpdateRating(ctx context.Context, userID, bookID string, rating int) error
}
