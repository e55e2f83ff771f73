package client

import (
	"context"

	"github.com/dmitrijs2005/bookshelf/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	Books(ctx context.Context) ([]models.Book, error)
	Book(ctx context.Context, id string) (*models.Book, error)
	MyBooks(ctx context.Context) ([]models.LibraryEntry, error)
	AddToLibrary(ctx context.Context, bookID string) (*models.LibraryEntry, error)
	SetStatus(ctx context.Context, bookID, status string) (*models.LibraryEntry, error)
	SetRating(ctx context.Context, bookID string, rating int) (*models.LibraryEntry, error)
}
