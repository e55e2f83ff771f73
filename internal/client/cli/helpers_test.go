package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/client/client"
	"github.com/dmitrijs2005/bookshelf/internal/client/config"
	"github.com/dmitrijs2005/bookshelf/internal/client/models"
)

// fakeClient is an in-memory client.Client. Every method returns err when
// it is set.
type fakeClient struct {
	err     error
	pingErr error

	user    *models.User
	books   []models.Book
	entries []models.LibraryEntry

	gotEmail    string
	gotPassword string
	loggedOut   bool
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) Register(_ context.Context, email, password string) (*models.User, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u1", Email: email}, nil
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*models.User, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u1", Email: email}, nil
}

func (f *fakeClient) Logout(context.Context) error {
	f.loggedOut = true
	return f.err
}

func (f *fakeClient) Me(context.Context) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeClient) Books(context.Context) ([]models.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.books, nil
}

func (f *fakeClient) Book(_ context.Context, id string) (*models.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.books {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, &client.APIError{Status: 404, Message: "Book not found"}
}

func (f *fakeClient) MyBooks(context.Context) ([]models.LibraryEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *fakeClient) AddToLibrary(_ context.Context, bookID string) (*models.LibraryEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := f.Book(context.Background(), bookID)
	if err != nil {
		return nil, err
	}
	return &models.LibraryEntry{ID: "e-" + bookID, UserID: "u1", Book: b, Status: "Want to Read", DateAdded: time.Now()}, nil
}

func (f *fakeClient) SetStatus(_ context.Context, bookID, status string) (*models.LibraryEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.LibraryEntry{ID: "e-" + bookID, Book: &models.Book{ID: bookID}, Status: status}, nil
}

func (f *fakeClient) SetRating(_ context.Context, bookID string, rating int) (*models.LibraryEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.LibraryEntry{ID: "e-" + bookID, Book: &models.Book{ID: bookID}, Status: "Read", Rating: &rating}, nil
}

func newTestApp(t *testing.T, api client.Client, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg := &config.Config{ServerURL: "http://bookshelf.test", RequestTimeout: time.Second}
	return newApp(cfg, api, strings.NewReader(input), &out), &out
}

func stubInputs(t *testing.T, email string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

var dune = models.Book{ID: "b1", Title: "Dune", Author: "Frank Herbert", PublishedYear: 1965, Genre: "Science Fiction", CoverImage: "https://covers.test/dune.jpg"}
var hobbit = models.Book{ID: "b2", Title: "The Hobbit", Author: "J.R.R. Tolkien", PublishedYear: 1937}
