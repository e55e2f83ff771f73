package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// CatalogService serves the read-only book catalog.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	covers      coverResolver
}

// NewCatalogService builds a CatalogService. signer may be nil, in which case
// cover object keys are returned unchanged.
func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, signer CoverSigner, log logging.Logger) *CatalogService {
	return &CatalogService{
		db:          db,
		repomanager: m,
		covers:      coverResolver{signer: signer, log: log},
	}
}

// List returns every book, newest first.
func (s *CatalogService) List(ctx context.Context) ([]models.Book, error) {
	books, err := s.repomanager.Books(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing books: %w", err)
	}

	for i := range books {
		s.covers.resolve(ctx, &books[i])
	}
	return books, nil
}

// Get returns one book or common.ErrBookNotFound. Ids that are not UUIDs
// cannot name a book and are reported as not found.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrBookNotFound
	}

	b, err := s.repomanager.Books(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrBookNotFound
		}
		return nil, fmt.Errorf("error loading book: %w", err)
	}

	s.covers.resolve(ctx, b)
	return b, nil
}
