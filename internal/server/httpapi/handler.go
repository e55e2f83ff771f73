// Package httpapi serves the bookshelf JSON API: authentication, the public
// catalog and each user's personal library. Every response uses the
// {success, message?, ...} envelope.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

// Accounts registers users and resolves sessions.
type Accounts interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	IssueToken(userID string) (string, error)
	SessionTTL() time.Duration
}

// Catalog reads the shared book catalog.
type Catalog interface {
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id string) (*models.Book, error)
}

// Library manages the signed-in user's entries.
type Library interface {
	List(ctx context.Context, userID string) ([]models.LibraryEntry, error)
	Add(ctx context.Context, userID, bookID string) (*models.LibraryEntry, error)
	SetStatus(ctx context.Context, userID, bookID string, status models.Status) (*models.LibraryEntry, error)
	SetRating(ctx context.Context, userID, bookID string, rating int) (*models.LibraryEntry, error)
}

// Limiter throttles the credential endpoints per client address.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Options tune the HTTP surface. A nil Limiter disables throttling and a
// zero RequestTimeout leaves request contexts unbounded. TrustProxy takes the
// client address from proxy headers instead of the TCP peer.
type Options struct {
	CORSOrigin     string
	CookieSecure   bool
	TrustProxy     bool
	RequestTimeout time.Duration
	Limiter        Limiter
	Tracing        bool
}

type Handler struct {
	accounts Accounts
	catalog  Catalog
	library  Library
	logger   logging.Logger
	opts     Options
}

func NewHandler(a Accounts, c Catalog, l Library, logger logging.Logger, opts Options) *Handler {
	return &Handler{
		accounts: a,
		catalog:  c,
		library:  l,
		logger:   logger.With("module", "http_api"),
		opts:     opts,
	}
}
