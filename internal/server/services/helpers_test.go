package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/dbx"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/config"
	"github.com/dmitrijs2005/bookshelf/internal/server/dbtest"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/entries"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookshelf/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:  "k",
		SessionTTL: time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

type fixture struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	users   *UserService
	catalog *CatalogService
	library *LibraryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	rm := repomanager.NewSQLRepositoryManager(dbx.DriverSQLite)
	return &fixture{
		db:      db,
		rm:      rm,
		users:   NewUserService(db, rm, testConfig(), logging.Nop{}),
		catalog: NewCatalogService(db, rm, nil, logging.Nop{}),
		library: NewLibraryService(db, rm, nil, logging.Nop{}),
	}
}

func (f *fixture) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), email, "secret123")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func (f *fixture) book(t *testing.T, title string) *models.Book {
	t.Helper()
	return dbtest.InsertBook(t, f.db, &models.Book{Title: title, Author: "Author of " + title})
}

// fakeRepoMgr overrides individual repositories; unset ones panic.
type fakeRepoMgr struct {
	repomanager.RepositoryManager
	usersRepo   users.Repository
	booksRepo   books.Repository
	entriesRepo entries.Repository
}

func (f *fakeRepoMgr) Users(dbx.DBTX) users.Repository     { return f.usersRepo }
func (f *fakeRepoMgr) Books(dbx.DBTX) books.Repository     { return f.booksRepo }
func (f *fakeRepoMgr) Entries(dbx.DBTX) entries.Repository { return f.entriesRepo }

type failingUsers struct{ err error }

func (f failingUsers) Create(context.Context, *models.User) (*models.User, error) {
	return nil, f.err
}
func (f failingUsers) GetByEmail(context.Context, string) (*models.User, error) { return nil, f.err }
func (f failingUsers) GetByID(context.Context, string) (*models.User, error)    { return nil, f.err }

type failingBooks struct{ err error }

func (f failingBooks) List(context.Context) ([]models.Book, error)           { return nil, f.err }
func (f failingBooks) GetByID(context.Context, string) (*models.Book, error) { return nil, f.err }

type stubSigner struct {
	err  error
	keys []string
}

func (s *stubSigner) PresignGet(_ context.Context, key string) (string, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return "", s.err
	}
	return "https://s3.local/covers/" + key + "?sig=1", nil
}
