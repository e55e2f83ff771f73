package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

const bookColumns = `id, title, author, description, cover_image, genre, published_year, isbn, created_at, updated_at`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// List returns the whole catalog, newest first.
func (r *SQLRepository) List(ctx context.Context) ([]models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books
		 ORDER BY created_at DESC, id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		books = append(books, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return books, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books
		 WHERE id = $1
		 `

	b, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return b, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanBook reads the columns listed in bookColumns, in order.
func scanBook(s scanner) (*models.Book, error) {
	var (
		b    models.Book
		isbn sql.NullString
	)

	err := s.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.CoverImage,
		&b.Genre, &b.PublishedYear, &isbn, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if isbn.Valid {
		b.ISBN = &isbn.String
	}
	return &b, nil
}
