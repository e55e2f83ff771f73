package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

const joinedSelect = `SELECT e.id, e.user_id, e.book_id, e.status, e.rating, e.date_added, e.date_finished,
		b.id, b.title, b.author, b.description, b.cover_image, b.genre, b.published_year, b.isbn, b.created_at, b.updated_at
		 FROM library_entries e
		 JOIN books b ON b.id = e.book_id`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, e *models.LibraryEntry) error {

	query :=
		`INSERT INTO library_entries (id, user_id, book_id, status, rating, date_added, date_finished)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.BookID, string(e.Status), e.Rating, e.DateAdded, e.DateFinished)

	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return common.ErrAlreadyExists
		case dbx.IsForeignKeyViolation(err):
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *SQLRepository) Get(ctx context.Context, userID, bookID string) (*models.LibraryEntry, error) {
	query := joinedSelect + `
		 WHERE e.user_id = $1 AND e.book_id = $2
		 `

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, userID, bookID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

// ListByUser returns the user's entries, most recently added first.
func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]models.LibraryEntry, error) {
	query := joinedSelect + `
		 WHERE e.user_id = $1
		 ORDER BY e.date_added DESC, e.id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.LibraryEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) UpdateStatus(ctx context.Context, userID, bookID string, status models.Status, finished *time.Time) error {
	query :=
		`UPDATE library_entries SET status = $1, date_finished = $2
		 WHERE user_id = $3 AND book_id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, string(status), finished, userID, bookID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOne(res)
}

func (r *SQLRepository) UpdateRating(ctx context.Context, userID, bookID string, rating int) error {
	query :=
		`UPDATE library_entries SET rating = $1
		 WHERE user_id = $2 AND book_id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, rating, userID, bookID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.LibraryEntry, error) {
	var (
		e        models.LibraryEntry
		b        models.Book
		status   string
		rating   sql.NullInt32
		finished sql.NullTime
		isbn     sql.NullString
	)

	err := s.Scan(&e.ID, &e.UserID, &e.BookID, &status, &rating, &e.DateAdded, &finished,
		&b.ID, &b.Title, &b.Author, &b.Description, &b.CoverImage, &b.Genre, &b.PublishedYear, &isbn, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.Status = models.Status(status)
	if rating.Valid {
		v := int(rating.Int32)
		e.Rating = &v
	}
	if finished.Valid {
		t := finished.Time
		e.DateFinished = &t
	}
	if isbn.Valid {
		b.ISBN = &isbn.String
	}
	e.Book = &b

	return &e, nil
}
