// Package state holds the terminal client's view of the session and the
// catalog. Transitions mirror the server's answers; readers take a Snapshot.
package state

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/bookshelf/internal/client/models"
)

type Auth struct {
	User            *models.User
	IsAuthenticated bool
	Loading         bool
	Error           string
}

type Books struct {
	All            []models.Book
	Mine           []models.LibraryEntry
	Loading        bool
	MyBooksLoading bool
	Error          string
}

// Snapshot is a deep copy of the store at one instant.
type Snapshot struct {
	Auth  Auth
	Books Books
}

// Store is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	auth  Auth
	books Books
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Snapshot{Auth: s.auth, Books: s.books}
	if s.auth.User != nil {
		u := *s.auth.User
		out.Auth.User = &u
	}
	out.Books.All = slices.Clone(s.books.All)
	out.Books.Mine = make([]models.LibraryEntry, len(s.books.Mine))
	for i, e := range s.books.Mine {
		out.Books.Mine[i] = cloneEntry(e)
	}
	return out
}

func cloneEntry(e models.LibraryEntry) models.LibraryEntry {
	if e.Book != nil {
		b := *e.Book
		e.Book = &b
	}
	if e.Rating != nil {
		r := *e.Rating
		e.Rating = &r
	}
	if e.DateFinished != nil {
		d := *e.DateFinished
		e.DateFinished = &d
	}
	return e
}

func (s *Store) update(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// LoginStart marks a login or registration in flight.
func (s *Store) LoginStart() {
	s.update(func() {
		s.auth.Loading = true
		s.auth.Error = ""
	})
}

// LoginSuccess records the signed-in user.
func (s *Store) LoginSuccess(u *models.User) {
	s.update(func() {
		s.auth = Auth{User: u, IsAuthenticated: true}
	})
}

// LoginFail drops any user and records why.
func (s *Store) LoginFail(msg string) {
	s.update(func() {
		s.auth = Auth{Error: msg}
	})
}

// Logout clears the session and the user's library.
func (s *Store) Logout() {
	s.update(func() {
		s.auth = Auth{}
		s.books.Mine = nil
	})
}

// SetUser restores a session found on startup.
func (s *Store) SetUser(u *models.User) {
	s.update(func() {
		s.auth.User = u
		s.auth.IsAuthenticated = true
		s.auth.Loading = false
	})
}

// ClearError resets both error fields.
func (s *Store) ClearError() {
	s.update(func() {
		s.auth.Error = ""
		s.books.Error = ""
	})
}

func (s *Store) FetchBooksStart() {
	s.update(func() {
		s.books.Loading = true
		s.books.Error = ""
	})
}

func (s *Store) FetchBooksSuccess(list []models.Book) {
	s.update(func() {
		s.books.Loading = false
		s.books.All = list
		s.books.Error = ""
	})
}

func (s *Store) FetchBooksFail(msg string) {
	s.update(func() {
		s.books.Loading = false
		s.books.Error = msg
	})
}

func (s *Store) FetchMyBooksStart() {
	s.update(func() {
		s.books.MyBooksLoading = true
		s.books.Error = ""
	})
}

func (s *Store) FetchMyBooksSuccess(list []models.LibraryEntry) {
	s.update(func() {
		s.books.MyBooksLoading = false
		s.books.Mine = list
		s.books.Error = ""
	})
}

func (s *Store) FetchMyBooksFail(msg string) {
	s.update(func() {
		s.books.MyBooksLoading = false
		s.books.Error = msg
	})
}

// AddBookSuccess puts a new entry first, matching the server's order.
func (s *Store) AddBookSuccess(e models.LibraryEntry) {
	s.update(func() {
		s.books.Mine = append([]models.LibraryEntry{e}, s.books.Mine...)
	})
}

// UpdateBookSuccess replaces the entry with the same id.
func (s *Store) UpdateBookSuccess(e models.LibraryEntry) {
	s.update(func() {
		for i := range s.books.Mine {
			if s.books.Mine[i].ID == e.ID {
				s.books.Mine[i] = e
			}
		}
	})
}

// SetError records a failure outside the fetch transitions.
func (s *Store) SetError(msg string) {
	s.update(func() {
		s.books.Error = msg
	})
}

// FindEntry returns a copy of the user's entry for bookID.
func (s *Store) FindEntry(bookID string) (models.LibraryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.books.Mine {
		if e.BookID() == bookID {
			return cloneEntry(e), true
		}
	}
	return models.LibraryEntry{}, false
}
