package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	minRating = 1
	maxRating = 5
)

// LibraryService manages a user's personal library. Every operation is
// scoped to the userID it is given, which callers take from the session.
type LibraryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	covers      coverResolver
	now         func() time.Time
}

func NewLibraryService(db *sql.DB, m repomanager.RepositoryManager, signer CoverSigner, log logging.Logger) *LibraryService {
	return &LibraryService{
		db:          db,
		repomanager: m,
		covers:      coverResolver{signer: signer, log: log},
		now:         time.Now,
	}
}

// List returns the user's entries joined with their books, most recently
// added first.
func (s *LibraryService) List(ctx context.Context, userID string) ([]models.LibraryEntry, error) {
	list, err := s.repomanager.Entries(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing library: %w", err)
	}

	for i := range list {
		s.covers.resolve(ctx, list[i].Book)
	}
	return list, nil
}

// Add puts a catalog book into the user's library as "Want to Read".
// Errors: common.ErrBookNotFound, common.ErrAlreadyInLibrary.
func (s *LibraryService) Add(ctx context.Context, userID, bookID string) (*models.LibraryEntry, error) {
	if _, err := uuid.Parse(bookID); err != nil {
		return nil, common.ErrBookNotFound
	}

	if _, err := s.repomanager.Books(s.db).GetByID(ctx, bookID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrBookNotFound
		}
		return nil, fmt.Errorf("error loading book: %w", err)
	}

	entry := &models.LibraryEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		BookID:    bookID,
		Status:    models.StatusWantToRead,
		DateAdded: s.now().UTC(),
	}

	repo := s.repomanager.Entries(s.db)
	if err := repo.Create(ctx, entry); err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			return nil, common.ErrAlreadyInLibrary
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrBookNotFound
		}
		return nil, fmt.Errorf("error adding book: %w", err)
	}

	return s.load(ctx, repo, userID, bookID)
}

// SetStatus changes the reading status. Moving to "Read" stamps
// DateFinished with the current time; any other status clears it.
// Errors: common.ErrInvalidStatus, common.ErrEntryNotFound.
func (s *LibraryService) SetStatus(ctx context.Context, userID, bookID string, status models.Status) (*models.LibraryEntry, error) {
	if !status.Valid() {
		return nil, common.ErrInvalidStatus
	}

	var finished *time.Time
	if status == models.StatusRead {
		t := s.now().UTC()
		finished = &t
	}

	return s.update(ctx, userID, bookID, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Entries(tx).UpdateStatus(ctx, userID, bookID, status, finished)
	})
}

// SetRating sets a 1..5 rating, independent of status.
// Errors: common.ErrInvalidRating, common.ErrEntryNotFound.
func (s *LibraryService) SetRating(ctx context.Context, userID, bookID string, rating int) (*models.LibraryEntry, error) {
	if rating < minRating || rating > maxRating {
		return nil, common.ErrInvalidRating
	}

	return s.update(ctx, userID, bookID, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Entries(tx).UpdateRating(ctx, userID, bookID, rating)
	})
}

// update runs mutate and re-reads the entry in one transaction.
func (s *LibraryService) update(ctx context.Context, userID, bookID string, mutate func(context.Context, dbx.DBTX) error) (*models.LibraryEntry, error) {
	if _, err := uuid.Parse(bookID); err != nil {
		return nil, common.ErrEntryNotFound
	}

	var entry *models.LibraryEntry
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := mutate(ctx, tx); err != nil {
			return err
		}
		var err error
		entry, err = s.load(ctx, s.repomanager.Entries(tx), userID, bookID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrEntryNotFound) {
			return nil, common.ErrEntryNotFound
		}
		return nil, fmt.Errorf("error updating library entry: %w", err)
	}
	return entry, nil
}

type entryGetter interface {
	Get(ctx context.Context, userID, bookID string) (*models.LibraryEntry, error)
}

func (s *LibraryService) load(ctx context.Context, repo entryGetter, userID, bookID string) (*models.LibraryEntry, error) {
	e, err := repo.Get(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrEntryNotFound
		}
		return nil, fmt.Errorf("error loading library entry: %w", err)
	}
	s.covers.resolve(ctx, e.Book)
	return e, nil
}
